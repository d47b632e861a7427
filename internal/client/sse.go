package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/totp-live/tui/internal/params"
	"github.com/totp-live/tui/internal/stream"
)

const maxEventSize = 64 * 1024

// SSEClient subscribes to a text/event-stream endpoint.
type SSEClient struct {
	url    string
	token  string
	client *http.Client
}

// NewSSEClient creates a transport for the given stream URL, e.g.
// "http://127.0.0.1:8080/totp-stream". The session parameters are appended
// as query values on every Subscribe.
func NewSSEClient(streamURL, token string) *SSEClient {
	// No client timeout: the response body is read for as long as the
	// subscription lives and is bounded by the request context instead.
	return &SSEClient{url: streamURL, token: token, client: &http.Client{}}
}

// Subscribe implements stream.Transport.
func (c *SSEClient) Subscribe(ctx context.Context, p params.Set, onEvent func([]byte)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, withQuery(c.url, p), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sse connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: snippet(body)}
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != "text/event-stream" {
		return fmt.Errorf("sse connect: unexpected content type %q", resp.Header.Get("Content-Type"))
	}

	if err := readEvents(resp.Body, onEvent); err != nil {
		return fmt.Errorf("sse read: %w", err)
	}
	return stream.ErrStreamClosed
}

// readEvents splits an event stream into event payloads. Each event's data
// lines are joined with "\n"; comments and the event, id and retry fields
// are skipped. An event still open at EOF is discarded.
func readEvents(r io.Reader, onEvent func([]byte)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxEventSize)
	sc.Split(scanLines)

	var data []byte
	pending := false
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			if pending {
				onEvent(bytes.TrimSuffix(data, []byte("\n")))
				data = nil
				pending = false
			}
			continue
		}
		if line[0] == ':' {
			continue
		}

		field, value, _ := bytes.Cut(line, []byte(":"))
		value = bytes.TrimPrefix(value, []byte(" "))
		if string(field) == "data" {
			data = append(data, value...)
			data = append(data, '\n')
			pending = true
		}
	}
	return sc.Err()
}

// scanLines is bufio.ScanLines extended to lone "\r" terminators, which the
// event stream format also allows.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\r' {
			if i+1 < len(data) {
				if data[i+1] == '\n' {
					return i + 2, data[:i], nil
				}
				return i + 1, data[:i], nil
			}
			if !atEOF {
				// Need one more byte to tell "\r" from "\r\n".
				return 0, nil, nil
			}
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
