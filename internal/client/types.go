// Package client provides the stream transports (Server-Sent Events and
// WebSocket) and the one-shot REST client for a TOTP code server.
package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/totp-live/tui/internal/params"
)

// Default server paths.
const (
	DefaultStreamPath    = "/totp-stream"
	DefaultWebSocketPath = "/totp-ws"
	DataPath             = "/totp-data"
	HealthPath           = "/health"
)

// StatusError is returned when the server answers with a non-success status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// ValidationError carries the server's explanation for rejecting parameters.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "server rejected parameters: " + e.Message
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status string `json:"status"`
}

type errorBody struct {
	Error string `json:"error"`
}

// withQuery appends the session parameters to a base endpoint URL.
func withQuery(endpoint string, p params.Set) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + p.Query().Encode()
}

// DeriveWSBase converts http://host:port → ws://host:port.
func DeriveWSBase(httpBase string) string {
	u, err := url.Parse(httpBase)
	if err != nil || u.Host == "" {
		return "ws://127.0.0.1:8080"
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s", scheme, u.Host)
}

// snippet trims a response body for inclusion in an error.
func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
