// Package elevation wraps a Google-style elevation lookup API: a batch of
// coordinates in, one elevation per coordinate out.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/reliefline/server/internal/lib/geo"
)

// successStatus is the status token the API returns on a successful lookup.
const successStatus = "OK"

// HTTPDoer executes HTTP requests. Satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ServiceError reports a failed elevation lookup. Transport failures carry
// the HTTP status code; API-level failures carry the service's error message.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("elevation service error %d: %s", e.StatusCode, e.Message)
	}
	return "elevation service error: " + e.Message
}

// Client provides access to the remote elevation service.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new elevation API client
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, "https://maps.googleapis.com")
}

// NewClientWithBaseURL creates a client against an alternate endpoint
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with an injected HTTP transport (for tests)
func NewClientWithHTTPDoer(apiKey, baseURL string, doer HTTPDoer) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: doer,
	}
}

// FetchElevations retrieves elevations for coords in a single batched call.
// The result has the same length and order as coords; a nil entry means the
// service reported no elevation for that location. Empty input returns an
// empty slice without a network call.
//
// Batching is the caller's responsibility: the client sends whatever it is
// given as one request.
func (c *Client) FetchElevations(ctx context.Context, coords []geo.Point) ([]*float64, error) {
	if len(coords) == 0 {
		return []*float64{}, nil
	}

	// Coordinates are encoded as "lat,lng" pairs joined by "|" in a single
	// query parameter.
	locations := make([]string, len(coords))
	for i, p := range coords {
		locations[i] = fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
	}

	params := url.Values{}
	params.Set("locations", strings.Join(locations, "|"))
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	requestURL := fmt.Sprintf("%s/maps/api/elevation/json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Cancellation is not a service failure; let the caller treat it
		// as a no-op.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ServiceError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var response lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &ServiceError{Message: "failed to decode response: " + err.Error()}
	}

	if response.Status != successStatus {
		message := response.ErrorMessage
		if message == "" {
			message = response.Status
		}
		return nil, &ServiceError{Message: message}
	}

	if len(response.Results) != len(coords) {
		return nil, &ServiceError{Message: fmt.Sprintf("expected %d results, got %d", len(coords), len(response.Results))}
	}

	elevations := make([]*float64, len(response.Results))
	for i, result := range response.Results {
		elevations[i] = result.Elevation
	}
	return elevations, nil
}

// lookupResponse represents the elevation API response structure
type lookupResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Results      []lookupResult `json:"results"`
}

// lookupResult is one elevation sample echoed back with its location
type lookupResult struct {
	Elevation  *float64       `json:"elevation"`
	Location   lookupLocation `json:"location"`
	Resolution float64        `json:"resolution,omitempty"`
}

type lookupLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
