// Package form implements the search form of a session: the province list,
// input validation, and the disabled-while-loading rule.
package form

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	playground "github.com/go-playground/validator/v10"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/apperr"
	"eczane_backend/platform/config"
	"eczane_backend/platform/validator"
)

const (
	isoDateLayout      = "2006-01-02"
	submitLabel        = "Find Pharmacies"
	submitLabelLoading = "Scanning..."
)

// ErrSubmitDisabled is returned while the previous search is still running.
var ErrSubmitDisabled = errors.New("search form is disabled while a search is running")

// Submitter receives validated searches. The session controller satisfies it.
type Submitter interface {
	Submit(ctx context.Context, params domain.SearchParams) uint64
	Loading() bool
}

// Input is the raw submission as typed by the user. District is free text
// and is passed on as typed, apart from surrounding whitespace.
type Input struct {
	City     string `json:"city" form:"city" validate:"required,province"`
	District string `json:"district" form:"district"`
	Date     string `json:"date" form:"date" validate:"omitempty,isodate"`
}

// Option is a single province choice.
type Option struct {
	Value    string
	Selected bool
}

// View is everything needed to draw the form.
type View struct {
	City        string
	District    string
	Date        string
	Options     []Option
	Disabled    bool
	SubmitLabel string
}

// Form holds the field values of one session and forwards submissions.
type Form struct {
	sub Submitter
	val *validator.Validator
	loc *time.Location
	now func() time.Time

	mu     sync.Mutex
	values domain.SearchParams
	dated  bool
}

// FormOption customizes a Form.
type FormOption func(*Form)

// WithClock overrides the clock used for the default date.
func WithClock(now func() time.Time) FormOption {
	return func(f *Form) { f.now = now }
}

// RegisterValidators installs the province and isodate tags on val.
func RegisterValidators(val *validator.Validator) error {
	if err := val.RegisterValidation("province", func(fl playground.FieldLevel) bool {
		_, ok := LookupProvince(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	return val.RegisterValidation("isodate", func(fl playground.FieldLevel) bool {
		_, err := time.Parse(isoDateLayout, fl.Field().String())
		return err == nil
	})
}

// New creates a form bound to sub. val must have RegisterValidators applied.
func New(sub Submitter, val *validator.Validator, cfg config.SearchConfig, opts ...FormOption) *Form {
	city := DefaultProvince
	if p, ok := LookupProvince(cfg.GetDefaultCity()); ok {
		city = p
	}
	loc := cfg.GetLocation()
	if loc == nil {
		loc = time.UTC
	}

	f := &Form{
		sub:    sub,
		val:    val,
		loc:    loc,
		now:    time.Now,
		values: domain.SearchParams{City: city},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Submit validates in and starts a search, returning its sequence number.
// It fails with ErrSubmitDisabled (a Conflict) while a search is running and
// with a Validation error when the input is rejected.
func (f *Form) Submit(ctx context.Context, in Input) (uint64, error) {
	in.City = strings.TrimSpace(in.City)
	in.Date = strings.TrimSpace(in.Date)

	if err := f.val.Struct(in); err != nil {
		return 0, apperr.Wrap(apperr.KindValidation, "invalid search parameters", err).
			WithOp("form.Submit").
			WithDetails(validator.FieldErrors(err))
	}

	city, _ := LookupProvince(in.City)
	params := domain.SearchParams{
		City:     city,
		District: strings.TrimSpace(in.District),
		Date:     in.Date,
	}
	if params.Date == "" {
		params.Date = f.today()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sub.Loading() {
		return 0, apperr.Wrap(apperr.KindConflict, "a search is already running", ErrSubmitDisabled).
			WithOp("form.Submit")
	}

	f.values = params
	f.dated = true
	return f.sub.Submit(ctx, params), nil
}

// View returns the form as it should be drawn for the given loading flag.
func (f *Form) View(loading bool) View {
	f.mu.Lock()
	values, dated := f.values, f.dated
	f.mu.Unlock()

	if !dated {
		values.Date = f.today()
	}

	options := make([]Option, len(Provinces))
	for i, p := range Provinces {
		options[i] = Option{Value: p, Selected: p == values.City}
	}

	label := submitLabel
	if loading {
		label = submitLabelLoading
	}

	return View{
		City:        values.City,
		District:    values.District,
		Date:        values.Date,
		Options:     options,
		Disabled:    loading,
		SubmitLabel: label,
	}
}

func (f *Form) today() string {
	return f.now().In(f.loc).Format(isoDateLayout)
}
