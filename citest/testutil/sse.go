package testutil

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SSEEvent is one bus event received over the stream.
type SSEEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SSEClient provides SSE client utilities for testing
type SSEClient struct {
	BaseURL    string
	HTTPClient *http.Client

	eventsCh chan SSEEvent
	cancel   context.CancelFunc
}

// NewSSEClient creates a new SSE test client
func NewSSEClient(baseURL string) *SSEClient {
	return &SSEClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		eventsCh:   make(chan SSEEvent, 100),
	}
}

// Connect opens the stream and waits for the server.connected event.
func (c *SSEClient) Connect(ctx context.Context, path string) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	go c.readEvents(resp.Body)

	_, err = c.WaitForEvent("server.connected", 5*time.Second)
	return err
}

func (c *SSEClient) readEvents(body io.ReadCloser) {
	defer close(c.eventsCh)
	defer body.Close()

	reader := bufio.NewReader(body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, "data:") {
			continue
		}

		var evt SSEEvent
		if err := json.Unmarshal([]byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))), &evt); err != nil {
			continue
		}
		select {
		case c.eventsCh <- evt:
		default:
		}
	}
}

// WaitForEvent returns the next event of the given type, skipping others.
func (c *SSEClient) WaitForEvent(eventType string, timeout time.Duration) (*SSEEvent, error) {
	deadline := time.After(timeout)
	for {
		select {
		case evt, ok := <-c.eventsCh:
			if !ok {
				return nil, fmt.Errorf("stream closed waiting for %s", eventType)
			}
			if evt.Type == eventType {
				return &evt, nil
			}
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for %s", eventType)
		}
	}
}

// Close closes the stream.
func (c *SSEClient) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}
