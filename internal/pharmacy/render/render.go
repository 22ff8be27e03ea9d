// Package render turns search results into view models and HTML. Every
// function here is pure: the same input always yields the same output.
package render

import (
	"html/template"
	"strings"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/phone"
)

// DefaultDistrictBadge is shown when a result names no district.
const DefaultDistrictBadge = "Merkez"

// Card is one pharmacy as displayed.
type Card struct {
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	Phone         string       `json:"phone"`
	PhoneLabel    string       `json:"phoneLabel"`
	DistrictBadge string       `json:"districtBadge"`
	DialURL       template.URL `json:"dialUrl"`
	NavigateURL   string       `json:"navigateUrl"`
}

// ResultsView is a rendered SearchResponse.
type ResultsView struct {
	City  string `json:"city"`
	Date  string `json:"date"`
	Count int    `json:"count"`
	Cards []Card `json:"cards"`
}

// SourceLink is a rendered citation.
type SourceLink struct {
	URI   string `json:"uri"`
	Label string `json:"label"`
}

// Renderer builds result views against a maps search endpoint.
type Renderer struct {
	mapsSearchURL string
}

// New creates a renderer whose navigation links start with mapsSearchURL,
// which must end where the encoded query begins.
func New(mapsSearchURL string) *Renderer {
	return &Renderer{mapsSearchURL: mapsSearchURL}
}

// Render maps resp to one card per result, in input order.
func (r *Renderer) Render(resp domain.SearchResponse) ResultsView {
	cards := make([]Card, 0, len(resp.Results))
	for _, p := range resp.Results {
		badge := p.District
		if badge == "" {
			badge = DefaultDistrictBadge
		}
		cards = append(cards, Card{
			Name:          p.Name,
			Address:       p.Address,
			Phone:         p.Phone,
			PhoneLabel:    phone.Display(p.Phone),
			DistrictBadge: badge,
			DialURL:       DialURL(p.Phone),
			NavigateURL:   r.NavigateURL(p.MapQueryHint, p.Address),
		})
	}

	return ResultsView{
		City:  resp.City,
		Date:  resp.Date,
		Count: len(cards),
		Cards: cards,
	}
}

// NavigateURL links to a map search for hint followed by address.
func (r *Renderer) NavigateURL(hint, address string) string {
	return r.mapsSearchURL + encodeURIComponent(hint+" "+address)
}

// DialURL is a tel: link carrying the phone exactly as reported.
func DialURL(raw string) template.URL {
	return template.URL("tel:" + raw)
}

// RenderSources labels each citation with its title, or its URI when the
// title is empty. Order and duplicates are kept.
func RenderSources(sources []domain.GroundingSource) []SourceLink {
	links := make([]SourceLink, 0, len(sources))
	for _, s := range sources {
		label := s.Title
		if label == "" {
			label = s.URI
		}
		links = append(links, SourceLink{URI: s.URI, Label: label})
	}
	return links
}

// encodeURIComponent percent-encodes s like the browser function of the
// same name: only A-Z a-z 0-9 and -_.!~*'() are left as they are.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
