package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// restTimeout bounds every REST exchange with the hub.
const restTimeout = 20 * time.Second

// RestClient is a stateless wrapper over the hub's REST API. Every request
// carries the bearer token; there is no session state to reuse. Certificate
// verification is never relaxed here, only on the WebSocket transport.
type RestClient struct {
	cfg  Config
	http *http.Client
}

// NewRestClient builds a client for one resolved configuration.
func NewRestClient(cfg Config) *RestClient {
	return &RestClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: restTimeout,
		},
	}
}

// Get fetches base+path and returns the raw JSON body.
func (c *RestClient) Get(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Post sends a JSON payload to base+path. An empty response body yields nil;
// a body that is not valid JSON is returned as the raw string instead of
// failing.
func (c *RestClient) Post(ctx context.Context, path string, payload any) (any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, path, encoded)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body), nil
	}
	return decoded, nil
}

func (c *RestClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
