package entity

type ToolName string

const (
	ToolGoogleSearch     ToolName = "google-search"
	ToolSerperSearch     ToolName = "serper-search"
	ToolDuckDuckGoSearch ToolName = "duckduckgo-search"
	ToolBrowserSearch    ToolName = "browser-search"
)

func (t ToolName) String() string {
	return string(t)
}

type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}
