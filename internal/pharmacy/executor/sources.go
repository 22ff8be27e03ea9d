package executor

import (
	"eczane_backend/internal/pharmacy/domain"

	"google.golang.org/genai"
)

// MapsSourceTitle labels citations that come from map grounding.
const MapsSourceTitle = "Google Maps Data"

// collectSources lists the citations of the first candidate in metadata order.
// A chunk contributes a web source when it has web uri+title, and a maps
// source when it has maps uri+title; anything else is skipped.
func collectSources(resp *genai.GenerateContentResponse) []domain.GroundingSource {
	sources := make([]domain.GroundingSource, 0)
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}

	for _, chunk := range meta.GroundingChunks {
		if chunk == nil {
			continue
		}
		if web := chunk.Web; web != nil && web.URI != "" && web.Title != "" {
			sources = append(sources, domain.GroundingSource{URI: web.URI, Title: web.Title})
		}
		if maps := chunk.Maps; maps != nil && maps.URI != "" && maps.Title != "" {
			sources = append(sources, domain.GroundingSource{URI: maps.URI, Title: MapsSourceTitle})
		}
	}
	return sources
}
