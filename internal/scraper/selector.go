package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/document"
)

// Selector pairs a label in the output document with a CSS selector
type Selector struct {
	Label string `json:"label"`
	CSS   string `json:"css"`
}

// ClassSelector builds a selector from a class name typed by the user.
// Input that already looks like CSS is kept as is.
func ClassSelector(label, class string) Selector {
	class = strings.TrimSpace(class)
	if class != "" && !strings.HasPrefix(class, ".") && !strings.ContainsAny(class, "#[]:>+~*, ") {
		class = "." + class
	}
	return Selector{Label: label, CSS: class}
}

// ParseSelector parses a "label=css selector" pair
func ParseSelector(s string) (Selector, error) {
	label, css, ok := strings.Cut(s, "=")
	label, css = strings.TrimSpace(label), strings.TrimSpace(css)
	if !ok || label == "" || css == "" {
		return Selector{}, eris.Errorf("selector %q: want label=css", s)
	}
	return Selector{Label: label, CSS: css}, nil
}

// SelectorScraper extracts text for caller-chosen selectors
type SelectorScraper struct {
	renderer Renderer
}

// NewSelectorScraper creates a scraper that loads pages through r
func NewSelectorScraper(r Renderer) *SelectorScraper {
	return &SelectorScraper{renderer: r}
}

// Scrape loads url and returns an object mapping each label, in the given
// order, to the trimmed text of every element its selector matches.
func (s *SelectorScraper) Scrape(ctx context.Context, url string, selectors []Selector) (document.Value, error) {
	doc, err := load(ctx, s.renderer, url)
	if err != nil {
		return document.Value{}, err
	}

	fields := make([]document.Field, 0, len(selectors))
	for _, sel := range selectors {
		matcher, err := cascadia.Compile(sel.CSS)
		if err != nil {
			return document.Value{}, scrapeErr(url, "select", eris.Wrapf(err, "label %q", sel.Label))
		}

		texts := []string{}
		doc.FindMatcher(matcher).Each(func(_ int, el *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(el.Text()))
		})
		zap.L().Debug("selector matched",
			zap.String("label", sel.Label),
			zap.String("css", sel.CSS),
			zap.Int("count", len(texts)),
		)
		fields = append(fields, document.Field{Key: sel.Label, Value: document.Strings(texts)})
	}

	return document.ObjectOf(fields...), nil
}

// load renders url and parses the markup
func load(ctx context.Context, r Renderer, url string) (*goquery.Document, error) {
	html, err := r.Render(ctx, url)
	if err != nil {
		var se *ScrapeError
		if eris.As(err, &se) {
			return nil, err
		}
		return nil, scrapeErr(url, "navigate", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrapeErr(url, "parse", err)
	}
	return doc, nil
}
