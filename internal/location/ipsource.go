package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eczane_backend/internal/pharmacy/domain"
	"eczane_backend/platform/logger"
)

// IPSource resolves a client IP to an approximate position through an
// ip-api.com compatible JSON endpoint.
type IPSource struct {
	baseURL string
	ip      string
	client  *http.Client
	log     *logger.Logger
}

// ipLookupResponse mirrors the relevant parts of the lookup payload.
type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPSource creates a source that looks up ip at baseURL.
func NewIPSource(baseURL, ip string, client *http.Client, log *logger.Logger) *IPSource {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &IPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		ip:      ip,
		client:  client,
		log:     log,
	}
}

// CurrentPosition implements Source.
func (s *IPSource) CurrentPosition(ctx context.Context) (domain.Coordinates, error) {
	params := url.Values{}
	params.Add("fields", "status,message,lat,lon")

	reqURL := fmt.Sprintf("%s/%s?%s", s.baseURL, url.PathEscape(s.ip), params.Encode())
	s.log.Debug("ip geolocation lookup", "ip", s.ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Coordinates{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("%w: lookup status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Coordinates{}, err
	}
	if payload.Status != "success" {
		return domain.Coordinates{}, fmt.Errorf("%w: %s", ErrUnavailable, payload.Message)
	}

	return domain.Coordinates{Latitude: payload.Lat, Longitude: payload.Lon}, nil
}
