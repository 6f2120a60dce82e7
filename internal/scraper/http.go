package scraper

import (
	"context"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// HTTPRenderer fetches the raw HTML over plain HTTP. It does not run
// scripts, so it only sees server-rendered markup.
type HTTPRenderer struct {
	client *resty.Client
}

// NewHTTPRenderer creates a renderer backed by a resty client
func NewHTTPRenderer(opts Options) *HTTPRenderer {
	opts = opts.withDefaults()
	client := resty.New().
		SetTimeout(opts.NavigationTimeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &HTTPRenderer{client: client}
}

func (h *HTTPRenderer) Name() string { return "http" }

// Render GETs url and returns the response body. Statuses of 400 and above
// are failures.
func (h *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", scrapeErr(url, "fetch", err)
	}
	if resp.IsError() {
		return "", scrapeErr(url, "fetch", eris.Errorf("status %s", resp.Status()))
	}

	zap.L().Debug("fetched page",
		zap.String("renderer", h.Name()),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
	)
	return resp.String(), nil
}
