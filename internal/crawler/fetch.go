package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	fetchUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	defaultFetchLimit = 2 << 20 // 2MB per page
)

// Fetcher fetches one URL and returns its body. Transport details
// (TLS, encoding, retries) live behind this; the controller only sees
// bytes or an error.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

// NewHTTPFetcher returns a plain GET fetcher with a shared client,
// a browser user agent and a response size cap.
func NewHTTPFetcher(timeout time.Duration, maxBodyBytes int64) Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultFetchLimit
	}
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: build request: %w", url, err)
		}
		req.Header.Set("User-Agent", fetchUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("fetch %s: read body: %w", url, err)
		}
		return body, nil
	}
}
