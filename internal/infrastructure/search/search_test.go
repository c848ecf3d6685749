package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"search-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/duckduckgo.html")
	require.NoError(t, err)
	return string(data)
}

func TestParseDuckDuckGoHTML(t *testing.T) {
	results, err := parseDuckDuckGoHTML(loadFixture(t), 5)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Paris - Wikipedia", results[0].Title)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Paris", results[0].URL)
	assert.Equal(t, "Paris is the capital and largest city of France.", results[0].Snippet)

	assert.Equal(t, "Paris | History, Map & Facts", results[1].Title)
	assert.Equal(t, "https://www.britannica.com/place/Paris", results[1].URL)

	assert.Equal(t, "Third result", results[2].Title)
	assert.Empty(t, results[2].Snippet)
}

func TestParseDuckDuckGoHTML_Limit(t *testing.T) {
	results, err := parseDuckDuckGoHTML(loadFixture(t), 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestDuckDuckGo_Search(t *testing.T) {
	fixture := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "capital of France", r.PostForm.Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	d := NewDuckDuckGoWithClient(2, srv.Client())
	d.endpoint = srv.URL

	results, err := d.Search(context.Background(), "capital of France")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestGoogle_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		assert.Equal(t, "cse", r.URL.Query().Get("cx"))
		assert.Equal(t, "golang", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{
				{"title": "The Go Programming Language", "link": "https://go.dev", "snippet": "Go is an open source language."},
			},
		})
	}))
	defer srv.Close()

	g := NewGoogleWithClient("key", "cse", 3, srv.Client())
	g.endpoint = srv.URL

	results, err := g.Search(context.Background(), "golang")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "https://go.dev", results[0].URL)
}

func TestGoogle_MissingCredentials(t *testing.T) {
	_, err := NewGoogle("", "cse", 5).Search(context.Background(), "q")
	assert.True(t, errors.Is(err, ErrMissingCredentials))
}

func TestSerper_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "capital of France", body["q"])

		_, _ = w.Write([]byte(`{
			"answerBox": {"title": "France", "answer": "Paris"},
			"organic": [
				{"title": "Paris", "link": "https://en.wikipedia.org/wiki/Paris", "snippet": "Capital of France."},
				{"title": "More", "link": "https://example.com", "snippet": "..."}
			]
		}`))
	}))
	defer srv.Close()

	s := NewSerperWithClient("secret", 2, srv.Client())
	s.endpoint = srv.URL

	results, err := s.Search(context.Background(), "capital of France")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Paris", results[0].Snippet)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Paris", results[1].URL)
}

func TestSerper_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSerperWithClient("secret", 2, srv.Client())
	s.endpoint = srv.URL

	_, err := s.Search(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 403")
}

func TestDoWithBackoff_RetriesOn429(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	g := NewGoogleWithClient("key", "cse", 3, srv.Client())
	g.endpoint = srv.URL

	results, err := g.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, int32(2), hits.Load())
}

func TestDoWithBackoff_ContextCanceledDuringWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDuckDuckGoWithClient(5, srv.Client())
	d.endpoint = srv.URL

	go cancel()
	_, err := d.Search(ctx, "q")
	assert.Error(t, err)
}

func TestBrowser_Search(t *testing.T) {
	if os.Getenv("SEARCH_AGENT_BROWSER_TESTS") == "" {
		t.Skip("set SEARCH_AGENT_BROWSER_TESTS=1 to run tests that launch Chrome")
	}

	fixture := loadFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(fixture))
	}))
	defer srv.Close()

	cfg := DefaultBrowserConfig()
	cfg.NoSandbox = true
	b := NewBrowser(cfg)
	b.endpoint = srv.URL
	defer b.Close()

	results, err := b.Search(context.Background(), "capital of France")
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestBrowser_CloseWithoutLaunch(t *testing.T) {
	assert.NoError(t, NewBrowser(BrowserConfig{}).Close())
}

func TestNewProvider(t *testing.T) {
	p, name, desc, err := NewProvider(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo", p.Name())
	assert.Equal(t, entity.ToolDuckDuckGoSearch, name)
	assert.NotEmpty(t, desc)

	p, name, _, err = NewProvider(Config{Provider: "Google", GoogleAPIKey: "k", GoogleCSEID: "cx"})
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())
	assert.Equal(t, entity.ToolGoogleSearch, name)

	p, name, _, err = NewProvider(Config{Provider: "browser"})
	require.NoError(t, err)
	assert.Equal(t, entity.ToolBrowserSearch, name)
	assert.NoError(t, p.(*Browser).Close())

	_, _, _, err = NewProvider(Config{Provider: "serper"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, _, _, err = NewProvider(Config{Provider: "google", GoogleAPIKey: "k"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, _, _, err = NewProvider(Config{Provider: "bing"})
	assert.ErrorContains(t, err, "unknown search provider")
}
