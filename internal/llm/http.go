package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-200 answer from a provider
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (%d): %s", e.Provider, e.Status, e.Message)
}

// Temporary reports whether retrying later may succeed (rate limits, server errors)
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// jsonCall is one JSON request to a provider endpoint
type jsonCall struct {
	provider string
	method   string
	url      string
	headers  map[string]string
	body     any // nil sends no body

	// describe pulls a readable message out of an error body; it returns ""
	// when the body is not in the provider's error format
	describe func(body []byte) string
}

// do executes the call and decodes a 200 answer into out (which may be nil)
func (c jsonCall) do(ctx context.Context, client *http.Client, out any) error {
	var reader io.Reader
	if c.body != nil {
		data, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if c.describe != nil {
			msg = c.describe(respBody)
		}
		if msg == "" {
			msg = string(bytes.TrimSpace(respBody))
		}
		return &APIError{Provider: c.provider, Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
