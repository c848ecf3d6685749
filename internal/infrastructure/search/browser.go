package search

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"search-agent/internal/application/port/output"
	"search-agent/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.SearchProvider = (*Browser)(nil)

type BrowserConfig struct {
	Headless   bool
	NoSandbox  bool
	Bin        string
	Timeout    time.Duration
	MaxResults int
}

func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		NoSandbox:  false,
		Timeout:    20 * time.Second,
		MaxResults: defaultMaxResults,
	}
}

// Browser renders the DuckDuckGo results page in headless Chrome. Chrome is
// launched on the first search and reused until Close.
type Browser struct {
	cfg      BrowserConfig
	endpoint string

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func NewBrowser(cfg BrowserConfig) *Browser {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBrowserConfig().Timeout
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	return &Browser{cfg: cfg, endpoint: duckDuckGoEndpoint}
}

func (b *Browser) Name() string { return "browser" }

func (b *Browser) Search(ctx context.Context, query string) ([]entity.SearchResult, error) {
	browser, err := b.ensureBrowser()
	if err != nil {
		return nil, fmt.Errorf("browser: %w", err)
	}

	target := b.endpoint + "?q=" + url.QueryEscape(query)
	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return nil, fmt.Errorf("browser: open page: %w", err)
	}
	defer page.Close()

	page = page.Timeout(b.cfg.Timeout)
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("browser: wait load: %w", err)
	}

	rendered, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("browser: read html: %w", err)
	}

	return parseDuckDuckGoHTML(rendered, b.cfg.MaxResults)
}

func (b *Browser) ensureBrowser() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	l := launcher.New().
		Headless(b.cfg.Headless).
		NoSandbox(b.cfg.NoSandbox).
		Delete("use-mock-keychain")
	if b.cfg.Bin != "" {
		l = l.Bin(b.cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	b.browser = browser
	b.launcher = l
	return browser, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Kill()
	b.browser = nil
	b.launcher = nil
	return err
}
