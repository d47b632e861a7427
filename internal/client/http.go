package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/totp-live/tui/internal/params"
	"github.com/totp-live/tui/internal/stream"
)

// HTTPClient makes one-shot REST calls to the code server.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client targeting the given base URL (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchCode fetches the current code once via /totp-data. A 400 answer with
// an error body is returned as *ValidationError.
func (c *HTTPClient) FetchCode(ctx context.Context, p params.Set) (*stream.CodeUpdate, error) {
	data, err := c.get(ctx, withQuery(c.baseURL+DataPath, p))
	if err != nil {
		return nil, err
	}
	v := stream.Classify(data)
	switch v.Kind {
	case stream.KindSuccess:
		return &v.Update, nil
	case stream.KindValidation:
		return nil, &ValidationError{Message: v.Message}
	default:
		return nil, fmt.Errorf("GET %s: %w", DataPath, v.Err)
	}
}

// Health fetches /health.
func (c *HTTPClient) Health(ctx context.Context) (*HealthStatus, error) {
	data, err := c.get(ctx, c.baseURL+HealthPath)
	if err != nil {
		return nil, err
	}
	var h HealthStatus
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("GET %s: decode: %w", HealthPath, err)
	}
	return &h, nil
}

func (c *HTTPClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.setAuth(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEventSize))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		var e errorBody
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return nil, &ValidationError{Message: e.Error}
		}
	}
	if resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	return body, nil
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
