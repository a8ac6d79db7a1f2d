package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Response is the decoded result of one HTTP round trip.
type Response struct {
	Body       string
	StatusCode int
}

// Requester performs a single HTTP round trip and returns the response body
// as text. Implemented by Transport; tests substitute stubs.
type Requester interface {
	Request(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (*Response, error)
}

// Transport is the HTTP client shared by both the Medium and summary
// clients. It performs no retries; retry policy belongs to callers.
type Transport struct {
	client *http.Client
}

// NewTransport creates a transport with a request timeout to prevent hanging.
func NewTransport() *Transport {
	return &Transport{
		client: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// Request issues one round trip and returns the full response body. Network
// failures and non-2xx statuses both produce a *TransportError; the status
// code is carried when a response was received.
func (t *Transport) Request(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return &Response{Body: string(data), StatusCode: resp.StatusCode}, nil
}
