package roadmatrix

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fieldops/leadrouter/auth"
	"github.com/fieldops/leadrouter/connectors"
	"github.com/fieldops/leadrouter/core/model"
)

const defaultBaseURL = "https://api.roadmatrix.io/v1/route"

// Client queries the roadmatrix routing API for a single origin to
// destination leg. Base URL, endpoints and travel mode are set through
// options before Fetch.
type Client struct {
	baseURL     string
	origin      model.Coordinate
	destination model.Coordinate
	mode        string
	httpClient  *http.Client
}

// Fetch performs the routing query. The origin and destination options
// are required; base URL and mode fall back to driving against the
// public endpoint.
func (c *Client) Fetch(authClient *auth.ClientCred, opts ...connectors.Option) (connectors.MatrixResponse, error) {
	c.baseURL = defaultBaseURL
	c.mode = "driving"
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.origin == (model.Coordinate{}) || c.destination == (model.Coordinate{}) {
		return nil, fmt.Errorf("origin and destination options are required")
	}

	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	url := fmt.Sprintf("%s?origin=%f,%f&destination=%f,%f&mode=%s",
		c.baseURL, c.origin.Lat, c.origin.Lng, c.destination.Lat, c.destination.Lng, c.mode)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if authClient != nil {
		if err := authClient.SetAuthHeader(req); err != nil {
			return nil, fmt.Errorf("failed to set auth header: %w", err)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var routeResponse Response
	if err := json.Unmarshal(body, &routeResponse); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &routeResponse, nil
}
