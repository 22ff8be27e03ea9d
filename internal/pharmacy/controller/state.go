package controller

import "eczane_backend/internal/pharmacy/domain"

// Status is the lifecycle phase of a session's current search.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is an immutable snapshot of a search. It is replaced wholesale on
// every transition, so at most one of Loading, Response and Error is set.
type State struct {
	Seq      uint64
	Status   Status
	Params   domain.SearchParams
	Response *domain.SearchResponse
	Sources  []domain.GroundingSource
	Error    string
}

// Loading reports whether a search is in flight.
func (s State) Loading() bool { return s.Status == StatusLoading }

// settledFor reports whether s answers the request seq: either seq itself
// has resolved or a newer request has superseded it.
func (s State) settledFor(seq uint64) bool {
	return s.Seq > seq || (s.Seq == seq && s.Status != StatusLoading)
}
