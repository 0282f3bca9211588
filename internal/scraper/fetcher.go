package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tipitaka-tools/tipitakafetch/internal/model"
)

// Fetch errors.
var (
	// ErrNotFound is returned when the site has no page for an ID.
	// Not retried: the ID simply does not exist.
	ErrNotFound = errors.New("sutta page not found")

	// ErrStatus is returned for non-retryable unexpected status codes.
	ErrStatus = errors.New("unexpected response status")
)

// Fetcher downloads individual sutta pages.
// It owns the HTTP client, request shaping, and the retry policy; it does
// not pace requests; the politeness delay between IDs belongs to the
// fetch loop, which knows whether another request will follow.
type Fetcher struct {
	// client is the underlying HTTP client.
	client *http.Client

	// baseURL is the root of the source site.
	baseURL *url.URL

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// retries is the number of additional attempts after a transient failure.
	retries int

	// backoff is the base wait between attempts; attempt n waits n*backoff.
	backoff time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client. Used in tests and for callers
// that need custom transports.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithRetries sets the number of retry attempts for transient failures.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.retries = n
		}
	}
}

// WithBackoff sets the base wait between retry attempts.
func WithBackoff(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoff = d
	}
}

// NewFetcher creates a Fetcher for the given site root.
func NewFetcher(baseURL string, timeout time.Duration, opts ...Option) (*Fetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	f := &Fetcher{
		client:      &http.Client{Timeout: timeout},
		baseURL:     u,
		userAgent:   "tipitakafetch/1.0",
		maxBodySize: 5 * 1024 * 1024, // 5MB
		retries:     3,
		backoff:     2 * time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// SuttaURL returns the page URL for a sutta ID.
func (f *Fetcher) SuttaURL(id int) string {
	u := *f.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + fmt.Sprintf("/sutta/%d", id)
	return u.String()
}

// Fetch downloads and extracts the page for one sutta ID.
// Transient failures (network errors, 5xx, 429) are retried with linear
// backoff up to the configured retry count. A 404 returns ErrNotFound
// immediately. The returned record has its derived fields (hash, word
// counts, validity) populated; the Nikaya key is left to the caller.
func (f *Fetcher) Fetch(ctx context.Context, id int) (*model.Sutta, error) {
	pageURL := f.SuttaURL(id)

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			// Linear backoff, cancellable
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * f.backoff):
			}
		}

		sutta, err := f.fetchOnce(ctx, id, pageURL)
		if err == nil {
			return sutta, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s failed after %d attempts: %w", pageURL, f.retries+1, lastErr)
}

// fetchOnce performs a single request/extract cycle.
func (f *Fetcher) fetchOnce(ctx context.Context, id int, pageURL string) (*model.Sutta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "si,en-US;q=0.7,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", pageURL, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		// Drain so the connection can be reused, then retry
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, f.maxBodySize)) //nolint:errcheck // Best effort drain
		return nil, &statusError{code: resp.StatusCode, url: pageURL}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s returned %d: %w", pageURL, resp.StatusCode, ErrStatus)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	extracted, err := Extract(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	sutta := &model.Sutta{
		ID:         id,
		URL:        pageURL,
		Title:      extracted.Title,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now().UTC(),
		Content: model.Content{
			Sinhala: extracted.Sinhala,
			Pali:    extracted.Pali,
		},
	}
	sutta.TruncateContent()
	sutta.ComputeHash()
	sutta.CountWords()
	sutta.Classify()

	return sutta, nil
}

// statusError marks a retryable HTTP status.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s returned %d", e.url, e.code)
}

// isRetryable reports whether an error is worth retrying.
// Retryable: network-level failures and 5xx/429 responses.
// Not retryable: 404, other 4xx, parse failures, cancellation.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStatus) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return true
	}
	// Remaining request errors are transport-level (DNS, refused
	// connections, timeouts) and worth retrying.
	return strings.Contains(err.Error(), "request failed")
}
