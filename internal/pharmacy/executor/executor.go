// Package executor runs one on-duty pharmacy search against the generative
// search model and turns its free-form answer into a SearchResponse.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/config"
	"eczane_backend/platform/logger"
	"eczane_backend/platform/validator"

	"google.golang.org/genai"
)

// ContentGenerator is the part of the genai Models service the executor uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Result is a parsed search plus the citations backing it.
type Result struct {
	Response domain.SearchResponse
	Sources  []domain.GroundingSource
}

// Executor performs searches. It is safe for concurrent use.
type Executor struct {
	gen       ContentGenerator
	model     string
	extractor Extractor
	val       *validator.Validator
	log       *logger.Logger
}

// Option customizes an Executor.
type Option func(*Executor)

// WithExtractor replaces the default greedy brace extractor.
func WithExtractor(e Extractor) Option {
	return func(x *Executor) { x.extractor = e }
}

// New creates an executor that calls model through gen.
func New(gen ContentGenerator, model string, val *validator.Validator, log *logger.Logger, opts ...Option) *Executor {
	x := &Executor{
		gen:       gen,
		model:     model,
		extractor: GreedyBraceExtractor{},
		val:       val,
		log:       log,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// NewGeminiClient builds the genai client for the Gemini API backend.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, httpClient *http.Client) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.GetGeminiAPIKey(),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := cfg.GetGeminiBaseURL(); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// Search asks the model for the on-duty pharmacies of params. coords, when
// non-nil, biases grounding toward the user's position.
//
// Transport errors are returned unchanged. An answer without a usable JSON
// object yields a *QueryError.
func (x *Executor) Search(ctx context.Context, params domain.SearchParams, coords *domain.Coordinates) (Result, error) {
	prompt := buildSearchPrompt(params.City, params.District, params.Date)

	resp, err := x.gen.GenerateContent(ctx, x.model, genai.Text(prompt), generateConfig(coords))
	if err != nil {
		x.log.WithContext(ctx).UpstreamError("gemini", err)
		return Result{}, err
	}

	sources := collectSources(resp)

	payload, err := x.extractor.Extract(responseText(resp))
	if err != nil {
		return Result{}, err
	}

	var parsed domain.SearchResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return Result{}, malformed(err)
	}
	if err := x.val.Struct(parsed); err != nil {
		return Result{}, malformed(err)
	}

	return Result{Response: parsed, Sources: sources}, nil
}

func generateConfig(coords *domain.Coordinates) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
			{GoogleMaps: &genai.GoogleMaps{}},
		},
	}
	if coords != nil {
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(coords.Latitude),
					Longitude: genai.Ptr(coords.Longitude),
				},
			},
		}
	}
	return cfg
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}
