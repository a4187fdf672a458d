// Package resend is a minimal client for the Resend email API, covering
// the single send operation report delivery needs.
package resend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/scout-cli/internal/resilience"
)

// Client calls the Resend HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// New creates a Client. baseURL defaults to the public API endpoint.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// SendRequest is one outbound email.
type SendRequest struct {
	From           string
	To             string
	Subject        string
	Text           string
	IdempotencyKey string
}

type sendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

// Send submits one email. Rate-limit and server-side failures come back
// as resilience.TransientError so the caller's retry policy applies;
// client errors fail fast.
func (c *Client) Send(ctx context.Context, req SendRequest) error {
	body, err := json.Marshal(sendPayload{
		From:    req.From,
		To:      []string{req.To},
		Subject: req.Subject,
		Text:    req.Text,
	})
	if err != nil {
		return eris.Wrap(err, "resend: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "resend: create request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "resend: send")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	sendErr := eris.Errorf("resend: unexpected status %d: %s", resp.StatusCode, string(respBody))
	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return resilience.NewTransientError(sendErr, resp.StatusCode)
	}
	return sendErr
}
