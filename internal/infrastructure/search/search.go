// Package search implements the web search backends available to the agent's
// search tool.
//
// Providers:
//
//   - Google: Custom Search JSON API, needs an API key and a search engine id.
//   - Serper: serper.dev Google results, needs an API key.
//   - DuckDuckGo: keyless, parses the HTML results page.
//   - Browser: renders the DuckDuckGo results page in headless Chrome.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

var ErrMissingCredentials = errors.New("search credentials are missing")

const (
	defaultMaxResults = 5
	defaultTimeout    = 15 * time.Second
	maxBackoff        = 30 * time.Second
	maxAttempts       = 5
	userAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// doWithBackoff sends the request built by newReq, retrying on HTTP 429 with a
// doubling delay. Any other status is returned to the caller.
func doWithBackoff(ctx context.Context, client *http.Client, newReq func() (*http.Request, error)) (*http.Response, error) {
	delay := time.Second
	for attempt := 1; ; attempt++ {
		req, err := newReq()
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxAttempts {
			return resp, nil
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < maxBackoff {
			delay *= 2
		}
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		return s[:n] + "..."
	}
	return s
}
