package form

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/apperr"
	"eczane_backend/platform/config"
	"eczane_backend/platform/validator"
)

type recordingSubmitter struct {
	loading bool
	seq     uint64
	got     []domain.SearchParams
}

func (r *recordingSubmitter) Submit(_ context.Context, p domain.SearchParams) uint64 {
	r.seq++
	r.got = append(r.got, p)
	return r.seq
}

func (r *recordingSubmitter) Loading() bool { return r.loading }

func newTestForm(t *testing.T, sub Submitter) *Form {
	t.Helper()
	val := validator.New()
	if err := RegisterValidators(val); err != nil {
		t.Fatalf("register validators: %v", err)
	}
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cfg := &config.Config{DefaultCity: "İstanbul", Timezone: istanbul}
	// 22:30 UTC on May 31st is already June 1st in Istanbul.
	clock := func() time.Time { return time.Date(2024, 5, 31, 22, 30, 0, 0, time.UTC) }
	return New(sub, val, cfg, WithClock(clock))
}

func TestProvinceListShape(t *testing.T) {
	if len(Provinces) != 81 {
		t.Fatalf("len(Provinces) = %d, want 81", len(Provinces))
	}
	seen := make(map[string]bool, len(Provinces))
	for _, p := range Provinces {
		if seen[p] {
			t.Fatalf("duplicate province %q", p)
		}
		seen[p] = true
	}
	if Provinces[0] != "Adana" || Provinces[len(Provinces)-1] != "Düzce" {
		t.Fatalf("unexpected order: first %q last %q", Provinces[0], Provinces[len(Provinces)-1])
	}
}

func TestLookupProvinceTurkishCasing(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"İstanbul", "İstanbul", true},
		{"istanbul", "İstanbul", true},
		{"İSTANBUL", "İstanbul", true},
		{"IĞDIR", "Iğdır", true},
		{"ığdır", "Iğdır", true},
		{"şanlıurfa", "Şanlıurfa", true},
		{"Gotham", "", false},
	}
	for _, tc := range cases {
		got, ok := LookupProvince(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("LookupProvince(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestSubmitDelegatesCanonicalParams(t *testing.T) {
	sub := &recordingSubmitter{}
	f := newTestForm(t, sub)

	seq, err := f.Submit(context.Background(), Input{City: " izmir ", District: "  Kadıköy <Moda> ", Date: "2024-06-01"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if seq != 1 {
		t.Fatalf("seq = %d, want 1", seq)
	}

	want := []domain.SearchParams{{City: "İzmir", District: "Kadıköy <Moda>", Date: "2024-06-01"}}
	if diff := cmp.Diff(want, sub.got); diff != "" {
		t.Fatalf("submitted params mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitAcceptsLongDistrict(t *testing.T) {
	sub := &recordingSubmitter{}
	f := newTestForm(t, sub)

	district := strings.Repeat("ç", 250)
	if _, err := f.Submit(context.Background(), Input{City: "İstanbul", District: district}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := sub.got[0].District; got != district {
		t.Fatalf("district changed: got %d runes", len([]rune(got)))
	}
}

func TestSubmitDefaultsDateToLocalToday(t *testing.T) {
	sub := &recordingSubmitter{}
	f := newTestForm(t, sub)

	if _, err := f.Submit(context.Background(), Input{City: "Ankara"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := sub.got[0].Date; got != "2024-06-01" {
		t.Fatalf("date = %q, want 2024-06-01", got)
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    Input
		field string
		tag   string
	}{
		{"missing city", Input{Date: "2024-06-01"}, "city", "required"},
		{"unknown city", Input{City: "Atlantis"}, "city", "province"},
		{"bad date", Input{City: "Ankara", Date: "01/06/2024"}, "date", "isodate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &recordingSubmitter{}
			f := newTestForm(t, sub)

			_, err := f.Submit(context.Background(), tc.in)
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			var appErr *apperr.Error
			if !errors.As(err, &appErr) {
				t.Fatal("expected *apperr.Error")
			}
			details, _ := appErr.Details.(map[string]string)
			if details[tc.field] != tc.tag {
				t.Fatalf("details = %v, want %s=%s", details, tc.field, tc.tag)
			}
			if len(sub.got) != 0 {
				t.Fatal("invalid input must not reach the controller")
			}
		})
	}
}

func TestSubmitDisabledWhileLoading(t *testing.T) {
	sub := &recordingSubmitter{loading: true}
	f := newTestForm(t, sub)

	_, err := f.Submit(context.Background(), Input{City: "Ankara", Date: "2024-06-01"})
	if !errors.Is(err, ErrSubmitDisabled) {
		t.Fatalf("err = %v, want ErrSubmitDisabled", err)
	}
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatal("disabled submit should map to a conflict")
	}
	if len(sub.got) != 0 {
		t.Fatal("controller must not be called while loading")
	}
}

func TestViewDefaultsAndLabels(t *testing.T) {
	sub := &recordingSubmitter{}
	f := newTestForm(t, sub)

	v := f.View(false)
	if v.City != "İstanbul" || v.District != "" || v.Date != "2024-06-01" {
		t.Fatalf("default values = %q %q %q", v.City, v.District, v.Date)
	}
	if v.Disabled || v.SubmitLabel != "Find Pharmacies" {
		t.Fatalf("idle view = disabled %v label %q", v.Disabled, v.SubmitLabel)
	}
	if len(v.Options) != 81 {
		t.Fatalf("len(Options) = %d", len(v.Options))
	}
	selected := 0
	for _, o := range v.Options {
		if o.Selected {
			selected++
			if o.Value != "İstanbul" {
				t.Fatalf("selected %q", o.Value)
			}
		}
	}
	if selected != 1 {
		t.Fatalf("%d options selected, want 1", selected)
	}

	loading := f.View(true)
	if !loading.Disabled || loading.SubmitLabel != "Scanning..." {
		t.Fatalf("loading view = disabled %v label %q", loading.Disabled, loading.SubmitLabel)
	}
}

func TestViewKeepsLastSubmission(t *testing.T) {
	sub := &recordingSubmitter{}
	f := newTestForm(t, sub)

	if _, err := f.Submit(context.Background(), Input{City: "Bursa", District: "Nilüfer", Date: "2024-07-15"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	v := f.View(false)
	if v.City != "Bursa" || v.District != "Nilüfer" || v.Date != "2024-07-15" {
		t.Fatalf("view values = %q %q %q", v.City, v.District, v.Date)
	}
}
