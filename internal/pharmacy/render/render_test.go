package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"eczane_backend/internal/pharmacy/domain"
)

const mapsBase = "https://www.google.com/maps/search/?api=1&query="

var scenarioA = domain.SearchResponse{
	City: "İstanbul",
	Date: "2024-06-01",
	Results: []domain.PharmacyResult{{
		Name:         "Merkez Eczanesi",
		Address:      "Bağdat Cad. 10",
		Phone:        "+905551112233",
		District:     "Kadıköy",
		MapQueryHint: "Merkez Eczanesi İstanbul map",
	}},
}

func TestRenderScenarioA(t *testing.T) {
	view := New(mapsBase).Render(scenarioA)

	if view.Count != 1 || len(view.Cards) != 1 {
		t.Fatalf("count = %d, cards = %d", view.Count, len(view.Cards))
	}
	card := view.Cards[0]
	if card.Name != "Merkez Eczanesi" {
		t.Fatalf("name = %q", card.Name)
	}
	if card.DialURL != "tel:+905551112233" {
		t.Fatalf("dial = %q", card.DialURL)
	}
	if card.DistrictBadge != "Kadıköy" {
		t.Fatalf("badge = %q", card.DistrictBadge)
	}
	wantNav := mapsBase + "Merkez%20Eczanesi%20%C4%B0stanbul%20map%20Ba%C4%9Fdat%20Cad.%2010"
	if card.NavigateURL != wantNav {
		t.Fatalf("navigate = %q, want %q", card.NavigateURL, wantNav)
	}
}

func TestRenderDefaultsAndOrder(t *testing.T) {
	resp := domain.SearchResponse{Results: []domain.PharmacyResult{
		{Name: "B Eczanesi", Phone: "0 (212) 555 00 00"},
		{Name: "A Eczanesi", District: "Beşiktaş"},
		{Name: "B Eczanesi", Phone: "not a phone"},
	}}

	view := New(mapsBase).Render(resp)

	names := make([]string, 0, len(view.Cards))
	for _, c := range view.Cards {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"B Eczanesi", "A Eczanesi", "B Eczanesi"}, names); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}
	if view.Cards[0].DistrictBadge != DefaultDistrictBadge {
		t.Fatalf("empty district badge = %q, want %q", view.Cards[0].DistrictBadge, DefaultDistrictBadge)
	}
	// Dial links are never normalized.
	if view.Cards[0].DialURL != "tel:0 (212) 555 00 00" {
		t.Fatalf("dial = %q", view.Cards[0].DialURL)
	}
	if view.Cards[2].PhoneLabel != "not a phone" {
		t.Fatalf("label = %q", view.Cards[2].PhoneLabel)
	}
	// Missing fields render as empty strings.
	if view.Cards[1].Phone != "" || view.Cards[1].DialURL != "tel:" {
		t.Fatalf("missing phone rendered as %q / %q", view.Cards[1].Phone, view.Cards[1].DialURL)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r := New(mapsBase)
	if diff := cmp.Diff(r.Render(scenarioA), r.Render(scenarioA)); diff != "" {
		t.Fatalf("render is not pure:\n%s", diff)
	}
}

func TestEncodeURIComponent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a b", "a%20b"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"Şişli/Mecidiyeköy", "%C5%9Ei%C5%9Fli%2FMecidiyek%C3%B6y"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := encodeURIComponent(tc.in); got != tc.want {
			t.Errorf("encodeURIComponent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRenderSources(t *testing.T) {
	in := []domain.GroundingSource{
		{URI: "https://www.istanbuleczaciodasi.org.tr", Title: "İstanbul Eczacı Odası"},
		{URI: "https://maps.google.com/?cid=1", Title: ""},
		{URI: "https://www.istanbuleczaciodasi.org.tr", Title: "İstanbul Eczacı Odası"},
	}
	want := []SourceLink{
		{URI: "https://www.istanbuleczaciodasi.org.tr", Label: "İstanbul Eczacı Odası"},
		{URI: "https://maps.google.com/?cid=1", Label: "https://maps.google.com/?cid=1"},
		{URI: "https://www.istanbuleczaciodasi.org.tr", Label: "İstanbul Eczacı Odası"},
	}
	if diff := cmp.Diff(want, RenderSources(in)); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
}
