package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"
)

var _ output.SearchProvider = (*Serper)(nil)

const serperEndpoint = "https://google.serper.dev/search"

// Serper queries Google through serper.dev.
type Serper struct {
	apiKey     string
	endpoint   string
	maxResults int
	client     *http.Client
}

func NewSerper(apiKey string, maxResults int) *Serper {
	return NewSerperWithClient(apiKey, maxResults, newHTTPClient())
}

func NewSerperWithClient(apiKey string, maxResults int, client *http.Client) *Serper {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Serper{apiKey: apiKey, endpoint: serperEndpoint, maxResults: maxResults, client: client}
}

func (s *Serper) Name() string { return "serper" }

type serperResponse struct {
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Title   string `json:"title"`
	} `json:"answerBox"`
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Website     string `json:"website"`
	} `json:"knowledgeGraph"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return nil, fmt.Errorf("serper: %w", ErrMissingCredentials)
	}

	payload, err := json.Marshal(map[string]any{"q": query, "num": s.maxResults})
	if err != nil {
		return nil, fmt.Errorf("serper: marshal request: %w", err)
	}

	resp, err := doWithBackoff(ctx, s.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-API-KEY", s.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("serper: parse response: %w", err)
	}
	return parsed.results(s.maxResults), nil
}

// results puts the direct answer and knowledge graph ahead of organic hits.
func (r serperResponse) results(limit int) []entity.SearchResult {
	var out []entity.SearchResult

	if ab := r.AnswerBox; ab != nil {
		text := ab.Answer
		if text == "" {
			text = ab.Snippet
		}
		if text != "" {
			out = append(out, entity.SearchResult{Title: "Answer: " + ab.Title, Snippet: text})
		}
	}
	if kg := r.KnowledgeGraph; kg != nil && kg.Description != "" {
		out = append(out, entity.SearchResult{Title: kg.Title, URL: kg.Website, Snippet: kg.Description})
	}
	for _, o := range r.Organic {
		if len(out) >= limit {
			break
		}
		out = append(out, entity.SearchResult{Title: o.Title, URL: o.Link, Snippet: o.Snippet})
	}
	return out
}
