package scraper

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodRenderer renders pages in a headless Chromium driven by rod. Every
// Render call launches its own browser and tears it down before returning.
type RodRenderer struct {
	opts Options
}

// NewRodRenderer creates a headless browser renderer
func NewRodRenderer(opts Options) *RodRenderer {
	return &RodRenderer{opts: opts.withDefaults()}
}

func (r *RodRenderer) Name() string { return "rod" }

// ownsProfile reports whether the browser profile is a throwaway one. A
// caller-supplied profile directory must survive the call.
func (r *RodRenderer) ownsProfile() bool {
	return r.opts.ProfileDir == ""
}

// Render navigates to url, waits for the page to load and the network to
// go quiet, and returns the rendered HTML.
func (r *RodRenderer) Render(ctx context.Context, url string) (string, error) {
	l := launcher.New().Context(ctx).Headless(true)
	if path, has := launcher.LookPath(); has {
		l = l.Bin(path)
	}
	if r.opts.ProfileDir != "" {
		l = l.UserDataDir(r.opts.ProfileDir)
	}
	if r.opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return "", scrapeErr(url, "launch", err)
	}
	if r.ownsProfile() {
		// only the temporary profile rod created is removed
		defer l.Cleanup()
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return "", scrapeErr(url, "launch", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			zap.L().Debug("browser close failed, killing process", zap.Error(err))
			l.Kill()
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", scrapeErr(url, "launch", err)
	}
	page = page.Timeout(r.opts.NavigationTimeout)
	defer page.CancelTimeout()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             r.opts.Width,
		Height:            r.opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", scrapeErr(url, "launch", err)
	}

	if err := page.Navigate(url); err != nil {
		return "", scrapeErr(url, "navigate", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", scrapeErr(url, "navigate", err)
	}

	// Let client-side rendering finish; persistent connections would keep
	// the page busy forever, so this wait is capped.
	idle := page.Timeout(5 * time.Second)
	idle.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
	idle.CancelTimeout()

	html, err := page.HTML()
	if err != nil {
		return "", scrapeErr(url, "render", err)
	}

	zap.L().Debug("rendered page",
		zap.String("renderer", r.Name()),
		zap.String("url", url),
		zap.Int("bytes", len(html)),
	)
	return html, nil
}
