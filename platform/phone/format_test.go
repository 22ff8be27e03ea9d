package phone

import (
	"strings"
	"testing"
)

func TestDisplayFormatsValidNumbers(t *testing.T) {
	got := Display(" +905551112233 ")
	if !strings.HasPrefix(got, "+90 ") {
		t.Fatalf("expected international grouping, got %q", got)
	}
	if strings.ReplaceAll(got, " ", "") != "+905551112233" {
		t.Fatalf("formatting changed digits: %q", got)
	}
}

func TestDisplayKeepsUnparseableInput(t *testing.T) {
	for _, input := range []string{"", "ask at the counter", "12"} {
		if got := Display(input); got != strings.TrimSpace(input) {
			t.Errorf("Display(%q) = %q, want input unchanged", input, got)
		}
	}
}
