// Package transport defines the JSON shapes of the pharmacy search API.
package transport

import "eczane_backend/internal/pharmacy/render"

// SearchRequest starts a search. Date defaults to today when empty.
type SearchRequest struct {
	City     string `json:"city"`
	District string `json:"district"`
	Date     string `json:"date"`
}

// SearchParams echoes the parameters a state belongs to.
type SearchParams struct {
	City     string `json:"city"`
	District string `json:"district"`
	Date     string `json:"date"`
}

// StateResponse is a rendered snapshot of a session's search.
type StateResponse struct {
	Seq     uint64              `json:"seq"`
	Status  string              `json:"status"`
	Params  *SearchParams       `json:"params,omitempty"`
	Results *render.ResultsView `json:"results,omitempty"`
	Sources []render.SourceLink `json:"sources"`
	Error   string              `json:"error,omitempty"`
}

// SearchAccepted is returned when a search has been started.
type SearchAccepted struct {
	Seq   uint64        `json:"seq"`
	State StateResponse `json:"state"`
}

// LocationRequest reports the browser's position, or that the user
// refused to share it.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Denied    bool     `json:"denied"`
}

// LocationResponse tells whether the reported position was kept.
type LocationResponse struct {
	Stored  bool `json:"stored"`
	Located bool `json:"located"`
}
