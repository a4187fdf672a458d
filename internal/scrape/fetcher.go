// Package scrape fetches pages from arbitrary third-party websites with
// bounded timeouts and reduces raw HTML to plain text suitable for
// prompting a language model.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// maxBodyBytes caps how much of a response body is read.
	maxBodyBytes = 512 * 1024

	// DefaultContentBudget caps the plain-text length handed to the model.
	DefaultContentBudget = 4000

	userAgent = "Mozilla/5.0 (compatible; ScoutBot/1.0)"
)

// PageText is the plain-text reduction of one fetched page.
type PageText struct {
	URL         string
	Title       string
	Text        string
	ContentType string
	StatusCode  int
}

// Fetcher fetches URLs over HTTP. Implementations must be safe for
// sequential reuse across many URLs within one scan.
type Fetcher interface {
	// FetchText fetches url and reduces the HTML body to plain text,
	// truncated to the content budget.
	FetchText(ctx context.Context, url string, timeout time.Duration) (*PageText, error)
	// FetchRaw fetches url and returns the raw body as a string.
	FetchRaw(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// HTTPFetcher is the net/http-backed Fetcher. Outbound requests are paced
// by a rate limiter so a scan does not hammer the target site.
type HTTPFetcher struct {
	client        *http.Client
	limiter       *rate.Limiter
	contentBudget int
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithContentBudget overrides the plain-text truncation limit.
func WithContentBudget(n int) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.contentBudget = n
		}
	}
}

// WithRateLimit overrides the outbound request pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(f *HTTPFetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewHTTPFetcher creates a fetcher with sensible network defaults. Per-call
// deadlines come from the timeout argument, not the client.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter:       rate.NewLimiter(rate.Limit(4), 2),
		contentBudget: DefaultContentBudget,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchText fetches url and reduces it to plain text.
func (f *HTTPFetcher) FetchText(ctx context.Context, url string, timeout time.Duration) (*PageText, error) {
	body, contentType, status, err := f.get(ctx, url, timeout)
	if err != nil {
		return nil, err
	}

	title, text := ReduceHTML(body)
	if len(text) > f.contentBudget {
		text = text[:f.contentBudget]
	}

	return &PageText{
		URL:         url,
		Title:       title,
		Text:        text,
		ContentType: contentType,
		StatusCode:  status,
	}, nil
}

// FetchRaw fetches url and returns the body verbatim.
func (f *HTTPFetcher) FetchRaw(ctx context.Context, url string, timeout time.Duration) (string, error) {
	body, _, _, err := f.get(ctx, url, timeout)
	return body, err
}

func (f *HTTPFetcher) get(ctx context.Context, url string, timeout time.Duration) (body, contentType string, status int, err error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", "", 0, eris.Wrap(err, "scrape: rate limit wait")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", 0, eris.Wrap(err, "scrape: create request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", 0, eris.Wrap(err, "scrape: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", "", resp.StatusCode, eris.Wrap(err, "scrape: read body")
	}

	if blocked, kind := detectBlock(resp.StatusCode, resp.Header, string(raw)); blocked {
		return "", "", resp.StatusCode, eris.Errorf("scrape: blocked (%s) fetching %s", kind, url)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", resp.StatusCode, eris.Errorf("scrape: status %d for %s", resp.StatusCode, url)
	}

	ct := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	return string(raw), strings.TrimSpace(ct), resp.StatusCode, nil
}
