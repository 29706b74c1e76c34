package feed

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// maxBodySize caps a single feed download
const maxBodySize = 32 << 20

// acceptLanguages contains common browser Accept-Language values
var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9",
	"en-US,en;q=0.9,de;q=0.8",
	"en-US,en;q=0.9,fr;q=0.8",
}

// HTTPFetcher downloads feed documents. Each call is one attempt bounded by the timeout,
// retrying is up to the caller.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with a per-attempt timeout
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch downloads the body of feedURL. Status codes of 400 and above are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	addFeedHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: unexpected status code %d", feedURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", feedURL, err)
	}
	return body, nil
}

// addFeedHeaders makes the request look like a regular feed reader or browser,
// some sources refuse bare clients
func addFeedHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/feed+json,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // header variation only
}
