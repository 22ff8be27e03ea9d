package executor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/logger"
	"eczane_backend/platform/validator"
)

type testGeminiConfig struct {
	baseURL string
}

func (c testGeminiConfig) GetGeminiAPIKey() string  { return "test-key" }
func (c testGeminiConfig) GetGeminiModel() string   { return "gemini-2.5-flash" }
func (c testGeminiConfig) GetGeminiBaseURL() string { return c.baseURL }

// TestSearchOverGeminiWire drives a real genai client against a fake
// generateContent endpoint.
func TestSearchOverGeminiWire(t *testing.T) {
	var requestBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":generateContent") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		requestBody = string(body)

		payload := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": scenarioAText}},
				},
				"groundingMetadata": map[string]any{
					"groundingChunks": []any{
						map[string]any{"web": map[string]any{"uri": "https://istanbuleczaciodasi.org.tr/nobetci-eczane", "title": "İstanbul Eczacı Odası"}},
						map[string]any{"web": map[string]any{"uri": "https://example.org/untitled"}},
					},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewGeminiClient(ctx, testGeminiConfig{baseURL: srv.URL + "/"}, srv.Client())
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	x := New(client.Models, "gemini-2.5-flash", validator.New(), logger.Discard())
	got, err := x.Search(ctx, istanbul, &domain.Coordinates{Latitude: 41.0, Longitude: 29.0})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(got.Response.Results) != 1 || got.Response.Results[0].Phone != "+905551112233" {
		t.Fatalf("unexpected results: %+v", got.Response.Results)
	}
	if len(got.Sources) != 1 || got.Sources[0].Title != "İstanbul Eczacı Odası" {
		t.Fatalf("unexpected sources: %+v", got.Sources)
	}
	for _, want := range []string{"googleSearch", "googleMaps", "latLng"} {
		if !strings.Contains(requestBody, want) {
			t.Errorf("request body is missing %q: %s", want, requestBody)
		}
	}
}
