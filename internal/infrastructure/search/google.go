package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"
)

var _ output.SearchProvider = (*Google)(nil)

const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// Google queries the Custom Search JSON API.
type Google struct {
	apiKey     string
	cseID      string
	endpoint   string
	maxResults int
	client     *http.Client
}

func NewGoogle(apiKey, cseID string, maxResults int) *Google {
	return NewGoogleWithClient(apiKey, cseID, maxResults, newHTTPClient())
}

func NewGoogleWithClient(apiKey, cseID string, maxResults int, client *http.Client) *Google {
	if maxResults <= 0 || maxResults > 10 {
		maxResults = defaultMaxResults
	}
	return &Google{
		apiKey:     apiKey,
		cseID:      cseID,
		endpoint:   googleEndpoint,
		maxResults: maxResults,
		client:     client,
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	if strings.TrimSpace(g.apiKey) == "" || strings.TrimSpace(g.cseID) == "" {
		return nil, fmt.Errorf("google: %w", ErrMissingCredentials)
	}

	q := url.Values{}
	q.Set("key", g.apiKey)
	q.Set("cx", g.cseID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(g.maxResults))
	reqURL := g.endpoint + "?" + q.Encode()

	resp, err := doWithBackoff(ctx, g.client, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}

	var payload struct {
		Items []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("google: parse response: %w", err)
	}

	results := make([]entity.SearchResult, 0, len(payload.Items))
	for _, item := range payload.Items {
		results = append(results, entity.SearchResult{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
		if len(results) >= g.maxResults {
			break
		}
	}
	return results, nil
}
