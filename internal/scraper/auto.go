package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AK2k30/npm-web-scrapper/internal/document"
)

// AutoScraper extracts a fixed outline of a page without user selectors
type AutoScraper struct {
	renderer Renderer
}

// NewAutoScraper creates an automatic scraper that loads pages through r
func NewAutoScraper(r Renderer) *AutoScraper {
	return &AutoScraper{renderer: r}
}

// Page loads url and returns its title, h1-h3 headings, paragraphs, links
// and images in document order.
func (a *AutoScraper) Page(ctx context.Context, url string) (*Page, error) {
	doc, err := load(ctx, a.renderer, url)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Title:      strings.TrimSpace(doc.Find("title").Text()),
		Headings:   texts(doc.Find("h1, h2, h3")),
		Paragraphs: texts(doc.Find("p")),
		Links:      []Link{},
		Images:     []Image{},
	}

	doc.Find("a").Each(func(_ int, el *goquery.Selection) {
		page.Links = append(page.Links, Link{
			Text: strings.TrimSpace(el.Text()),
			Href: attr(el, "href"),
		})
	})
	doc.Find("img").Each(func(_ int, el *goquery.Selection) {
		page.Images = append(page.Images, Image{
			Alt: attr(el, "alt"),
			Src: attr(el, "src"),
		})
	})

	return page, nil
}

// Scrape returns the page outline as a document
func (a *AutoScraper) Scrape(ctx context.Context, url string) (document.Value, error) {
	page, err := a.Page(ctx, url)
	if err != nil {
		return document.Value{}, err
	}
	v, err := document.FromGo(page)
	if err != nil {
		return document.Value{}, scrapeErr(url, "parse", err)
	}
	return v, nil
}

func texts(sel *goquery.Selection) []string {
	out := []string{}
	sel.Each(func(_ int, el *goquery.Selection) {
		out = append(out, strings.TrimSpace(el.Text()))
	})
	return out
}

func attr(el *goquery.Selection, name string) *string {
	v, ok := el.Attr(name)
	if !ok {
		return nil
	}
	return &v
}
