// Package mapbox is a thin client for the Mapbox v6 forward-geocoding API,
// normalizing search results into domain.PlaceSuggestion records.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/joyroute/backend/internal/domain"
)

// Client calls the Mapbox forward-geocoding endpoint.
type Client struct {
	baseURL     string
	accessToken string
	httpc       *http.Client
}

// NewClient constructs a Client. baseURL is the forward-geocoding endpoint
// (e.g. "https://api.mapbox.com/search/geocode/v6/forward"). When httpc is
// nil a client with a 5s timeout is used.
func NewClient(baseURL, accessToken string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: baseURL, accessToken: accessToken, httpc: httpc}
}

// geocodeResponse declares only the response fields the normalizer reads.
type geocodeResponse struct {
	Features []struct {
		ID         string `json:"id"`
		Properties struct {
			Name        string `json:"name"`
			FullAddress string `json:"full_address"`
			Coordinates struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"coordinates"`
		} `json:"properties"`
	} `json:"features"`
}

// ForwardGeocode searches places matching query and returns normalized
// suggestions. limit is passed through to the provider; autocomplete enables
// prefix matching for type-ahead search boxes.
func (c *Client) ForwardGeocode(ctx context.Context, query string, autocomplete bool, limit int) ([]domain.PlaceSuggestion, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("autocomplete", strconv.FormatBool(autocomplete))
	params.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("mapbox.Client.ForwardGeocode: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mapbox.Client.ForwardGeocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mapbox.Client.ForwardGeocode: status %d: %s", resp.StatusCode, snippet)
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("mapbox.Client.ForwardGeocode: decode: %w", err)
	}

	suggestions := make([]domain.PlaceSuggestion, 0, len(parsed.Features))
	for _, f := range parsed.Features {
		lat := f.Properties.Coordinates.Latitude
		lng := f.Properties.Coordinates.Longitude
		suggestions = append(suggestions, domain.PlaceSuggestion{
			ExternalID: f.ID,
			Name:       f.Properties.Name,
			Address:    f.Properties.FullAddress,
			Latitude:   &lat,
			Longitude:  &lng,
		})
	}

	return suggestions, nil
}
