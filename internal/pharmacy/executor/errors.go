package executor

import "errors"

// QueryErrorKind distinguishes why a model answer could not be used.
type QueryErrorKind int

const (
	// UnparseableResponse means the answer held no {...} substring.
	UnparseableResponse QueryErrorKind = iota + 1
	// MalformedJSON means the extracted substring did not decode, or decoded
	// into an object missing required fields.
	MalformedJSON
)

// ParseFailureMessage is the user-facing text of every QueryError.
const ParseFailureMessage = "Failed to parse pharmacy data. The model did not return valid JSON."

var (
	// ErrUnparseableResponse matches QueryErrors of kind UnparseableResponse.
	ErrUnparseableResponse = errors.New("no valid data found in model response")
	// ErrMalformedJSON matches QueryErrors of kind MalformedJSON.
	ErrMalformedJSON = errors.New("model response JSON is malformed")
)

// QueryError reports a model answer that could not be turned into a
// SearchResponse. Transport failures are never wrapped in a QueryError.
type QueryError struct {
	Kind QueryErrorKind
	Err  error
}

func (e *QueryError) Error() string {
	return ParseFailureMessage
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *QueryError) Unwrap() []error {
	sentinel := ErrMalformedJSON
	if e.Kind == UnparseableResponse {
		sentinel = ErrUnparseableResponse
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

func unparseable() error {
	return &QueryError{Kind: UnparseableResponse}
}

func malformed(err error) error {
	return &QueryError{Kind: MalformedJSON, Err: err}
}
