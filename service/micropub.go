package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes caps how much of an endpoint's response body is kept for
// diagnostics.
const maxResponseBytes = 64 * 1024

// Response is what came back from a Micropub endpoint.
type Response struct {
	StatusCode int
	Body       string // trimmed
	Header     http.Header
}

// Location returns the canonical URL assigned by the endpoint, or "" when
// none was returned.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// MicropubClient performs the authenticated call to a user's configured
// endpoint. Calls are synchronous; failures are not retried here — retry is a
// distinct user-triggered operation.
type MicropubClient struct {
	HTTP *http.Client
}

func NewMicropubClient(timeout time.Duration) *MicropubClient {
	return &MicropubClient{HTTP: &http.Client{Timeout: timeout}}
}

// Post sends payload as JSON to the endpoint with a bearer token and returns
// the structured response regardless of status code. The caller decides what
// a non-2xx or Location-less response means.
func (c *MicropubClient) Post(ctx context.Context, endpoint string, payload any, token string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(raw)),
		Header:     resp.Header.Clone(),
	}, nil
}
