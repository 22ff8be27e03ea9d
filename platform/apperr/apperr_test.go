package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{New(KindBadRequest, "x"), http.StatusBadRequest},
		{New(KindConflict, "x"), http.StatusConflict},
		{Internal("x"), http.StatusInternalServerError},
		{New(KindUnknown, "x"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("kind %d: HTTPStatus() = %d, want %d", tc.err.Kind, got, tc.want)
		}
	}
}

func TestGetKindFollowsWrapChain(t *testing.T) {
	sentinel := errors.New("form disabled")
	base := Wrap(KindConflict, "search already running", sentinel)
	wrapped := fmt.Errorf("submit: %w", base)

	if !Is(wrapped, KindConflict) {
		t.Fatalf("expected wrapped error to report KindConflict")
	}
	if !errors.Is(wrapped, sentinel) {
		t.Fatalf("expected the cause to stay reachable through errors.Is")
	}
	if Is(errors.New("plain"), KindConflict) {
		t.Fatalf("plain errors must report KindUnknown")
	}
}

func TestErrorIncludesOp(t *testing.T) {
	err := Validation("city is required").WithOp("form.Submit")
	if got, want := err.Error(), "form.Submit: city is required"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
