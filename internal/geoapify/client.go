// Package geoapify is a thin client for the Geoapify Route Planner API.
// It knows only the wire shapes; turning a trip day into a plan request and
// reconciling the response into an event ordering is the route service's job.
package geoapify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// JobDurationSeconds is the fixed service duration attached to every job.
// The planner needs a dwell time per stop; one hour is the product default.
const JobDurationSeconds = 3600

// DayWindowSeconds is the agent's all-day availability window [0, 86400).
const DayWindowSeconds = 86400

// Agent is the fixed start point of a route.
type Agent struct {
	StartLocation [2]float64 `json:"start_location"` // [lng, lat]
	TimeWindows   [][2]int   `json:"time_windows"`
}

// Job is a stop to be visited and sequenced.
type Job struct {
	ID       string     `json:"id"`
	Location [2]float64 `json:"location"` // [lng, lat]
	Duration int        `json:"duration"` // seconds
}

// PlanRequest is the payload for a single-agent route-planner call.
type PlanRequest struct {
	Mode   string  `json:"mode"`
	Agents []Agent `json:"agents"`
	Jobs   []Job   `json:"jobs"`
}

// PlanResult is the parsed outcome of a planner call.
type PlanResult struct {
	// JobOrder holds the routed job ids in visit order.
	JobOrder []string
	// DistanceMeters and TimeSeconds are the route totals reported by the provider.
	DistanceMeters float64
	TimeSeconds    float64
}

// planResponse mirrors the GeoJSON-like provider response; only the fields
// the adapter depends on are declared.
type planResponse struct {
	Features []struct {
		Properties struct {
			Distance float64 `json:"distance"`
			Time     float64 `json:"time"`
			Actions  []struct {
				Type  string `json:"type"`
				JobID string `json:"job_id"`
			} `json:"actions"`
		} `json:"properties"`
	} `json:"features"`
}

// Client calls the Geoapify Route Planner endpoint.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient constructs a Client. baseURL is the planner endpoint without the
// apiKey query parameter (e.g. "https://api.geoapify.com/v1/routeplanner").
// When httpc is nil a client with a 30s timeout is used; the timeout is the
// only cancellation mechanism for a hung provider call.
func NewClient(baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpc: httpc}
}

// PlanRoute posts the request to the provider and parses the first returned
// route feature. Transport errors, non-2xx statuses, and malformed bodies
// are all returned as plain errors; the call is never retried here.
func (c *Client) PlanRoute(ctx context.Context, plan PlanRequest) (PlanResult, error) {
	body, err := json.Marshal(plan)
	if err != nil {
		return PlanResult{}, fmt.Errorf("geoapify.Client.PlanRoute: marshal: %w", err)
	}

	endpoint := c.baseURL + "?apiKey=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return PlanResult{}, fmt.Errorf("geoapify.Client.PlanRoute: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return PlanResult{}, fmt.Errorf("geoapify.Client.PlanRoute: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Read a little of the body for the log line; the payload is not parsed.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PlanResult{}, fmt.Errorf("geoapify.Client.PlanRoute: status %d: %s", resp.StatusCode, snippet)
	}

	var parsed planResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return PlanResult{}, fmt.Errorf("geoapify.Client.PlanRoute: decode: %w", err)
	}
	if len(parsed.Features) == 0 {
		return PlanResult{}, fmt.Errorf("geoapify.Client.PlanRoute: response has no route features")
	}

	props := parsed.Features[0].Properties
	result := PlanResult{
		DistanceMeters: props.Distance,
		TimeSeconds:    props.Time,
	}
	for _, action := range props.Actions {
		// Actions include "start"/"end" markers; only "job" entries carry stops.
		if action.Type == "job" && action.JobID != "" {
			result.JobOrder = append(result.JobOrder, action.JobID)
		}
	}

	return result, nil
}
