package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"golang.org/x/net/html"
)

var _ output.SearchProvider = (*DuckDuckGo)(nil)

const duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the keyless HTML results page.
type DuckDuckGo struct {
	endpoint   string
	maxResults int
	client     *http.Client
}

func NewDuckDuckGo(maxResults int) *DuckDuckGo {
	return NewDuckDuckGoWithClient(maxResults, newHTTPClient())
}

func NewDuckDuckGoWithClient(maxResults int, client *http.Client) *DuckDuckGo {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &DuckDuckGo{endpoint: duckDuckGoEndpoint, maxResults: maxResults, client: client}
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)

	resp, err := doWithBackoff(ctx, d.client, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: %w", err)
	}

	return parseDuckDuckGoHTML(string(body), d.maxResults)
}

// parseDuckDuckGoHTML extracts results from a DuckDuckGo HTML results page:
// a link with class result__a followed by an element with class result__snippet.
func parseDuckDuckGoHTML(rawHTML string, limit int) ([]entity.SearchResult, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var results []entity.SearchResult
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) > limit {
			return
		}
		if n.Type == html.ElementNode {
			classes := attr(n, "class")
			switch {
			case hasClass(classes, "result__a"):
				results = append(results, entity.SearchResult{
					Title: collapse(textContent(n)),
					URL:   resolveRedirect(attr(n, "href")),
				})
				return
			case hasClass(classes, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = collapse(textContent(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(classes, want string) bool {
	for _, c := range strings.Fields(classes) {
		if c == want {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
