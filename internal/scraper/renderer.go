package scraper

import (
	"context"
	"fmt"
	"time"
)

// Options configures how pages are loaded
type Options struct {
	Width             int
	Height            int
	NavigationTimeout time.Duration
	ProfileDir        string // Chrome/Chromium profile directory for authenticated sessions
	NoSandbox         bool
	UserAgent         string
}

// DefaultOptions mirrors a laptop viewport and a navigation wait long enough
// for slow single-page apps to settle.
func DefaultOptions() Options {
	return Options{
		Width:             1280,
		Height:            800,
		NavigationTimeout: 100 * time.Minute,
		UserAgent:         "Mozilla/5.0 (compatible; web-scrap-ai/1.0)",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.NavigationTimeout == 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = d.UserAgent
	}
	return o
}

// Renderer loads a URL and returns the resulting HTML. Implementations own
// any session they open and release it before returning.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
	Name() string
}

// ScrapeError reports a failure to load or extract a page. No partial
// document accompanies it.
type ScrapeError struct {
	URL string
	Op  string // launch, navigate, fetch, parse, select
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %s: %v", e.URL, e.Op, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

func scrapeErr(url, op string, err error) *ScrapeError {
	return &ScrapeError{URL: url, Op: op, Err: err}
}
