package search

import (
	"fmt"
	"strings"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"
)

type Config struct {
	Provider     string
	MaxResults   int
	GoogleAPIKey string
	GoogleCSEID  string
	SerperAPIKey string
	Browser      BrowserConfig
}

func DefaultConfig() Config {
	return Config{
		Provider:   "duckduckgo",
		MaxResults: defaultMaxResults,
		Browser:    DefaultBrowserConfig(),
	}
}

// NewProvider returns the provider named by cfg.Provider together with the
// tool name and description it is exposed under.
func NewProvider(cfg Config) (output.SearchProvider, entity.ToolName, string, error) {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "google":
		if cfg.GoogleAPIKey == "" || cfg.GoogleCSEID == "" {
			return nil, "", "", fmt.Errorf("google: GOOGLE_API_KEY and GOOGLE_CSE_ID: %w", ErrMissingCredentials)
		}
		return NewGoogle(cfg.GoogleAPIKey, cfg.GoogleCSEID, cfg.MaxResults),
			entity.ToolGoogleSearch, "Search Google for recent results.", nil
	case "serper":
		if cfg.SerperAPIKey == "" {
			return nil, "", "", fmt.Errorf("serper: SERPER_API_KEY: %w", ErrMissingCredentials)
		}
		return NewSerper(cfg.SerperAPIKey, cfg.MaxResults),
			entity.ToolSerperSearch, "Search Google through Serper for recent results and direct answers.", nil
	case "", "duckduckgo", "ddg":
		return NewDuckDuckGo(cfg.MaxResults),
			entity.ToolDuckDuckGoSearch, "Search the web with DuckDuckGo for recent results.", nil
	case "browser":
		bc := cfg.Browser
		bc.MaxResults = cfg.MaxResults
		return NewBrowser(bc),
			entity.ToolBrowserSearch, "Search the web in a headless browser for recent results.", nil
	default:
		return nil, "", "", fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}
