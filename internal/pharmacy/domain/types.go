// Package domain holds the value types shared by the pharmacy search modules.
package domain

// SearchParams is one submitted search. Values are never mutated after
// submission.
type SearchParams struct {
	City     string
	District string
	Date     string
}

// PharmacyResult is a single on-duty pharmacy as reported by the search
// collaborator. Every field is an opaque string; none is checked for format.
type PharmacyResult struct {
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	District     string `json:"district"`
	MapQueryHint string `json:"google_maps_query"`
}

// SearchResponse is the structured payload the collaborator returns.
// Results keep the collaborator's order.
type SearchResponse struct {
	City    string           `json:"city" validate:"required"`
	Date    string           `json:"date" validate:"required"`
	Results []PharmacyResult `json:"results" validate:"required,dive"`
}

// GroundingSource is one citation backing a search result.
type GroundingSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}
