package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/ai"
	"github.com/AK2k30/npm-web-scrapper/internal/config"
	"github.com/AK2k30/npm-web-scrapper/internal/document"
	"github.com/AK2k30/npm-web-scrapper/internal/scraper"
)

var urlRe = regexp.MustCompile(`(?i)^(https?://[^\s/$.?#].[^\s]*)$`)

// ValidURL reports whether s looks like an http or https URL
func ValidURL(s string) bool {
	return urlRe.MatchString(s)
}

// Quick fetches a page over HTTP, saves it and chats about it with a
// provider picked from a menu. Without selectors the page is scraped
// automatically.
func (a *App) Quick(ctx context.Context, selectors []scraper.Selector) error {
	green.Fprintln(a.out, "Welcome to Web Scraper Chatbot!")

	if err := a.Setup(); err != nil {
		return err
	}

	url, err := a.prompt.AskValid("Enter the website URL to scrape: ", func(s string) string {
		if !ValidURL(s) {
			return "Please enter a valid URL"
		}
		return ""
	})
	if err != nil {
		return err
	}

	stop := a.spin("Scraping website...")
	var doc document.Value
	if len(selectors) > 0 {
		doc, err = scraper.NewSelectorScraper(a.fetcher).Scrape(ctx, url, selectors)
	} else {
		doc, err = scraper.NewAutoScraper(a.fetcher).Scrape(ctx, url)
	}
	stop()
	if err != nil {
		red.Fprintln(a.out, "✖ Failed to scrape website")
		return eris.Wrap(err, "website scraping")
	}
	green.Fprintln(a.out, "✔ Website scraped successfully")

	name, err := a.store.Save(doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Scraped content saved to %s\n", name)

	provider, err := a.chooseProvider()
	if err != nil {
		return err
	}
	key, err := a.keyFor(provider, a.jsonStore, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "You have chosen to use the %s API.\n", displayName(provider))

	cfg := a.providerConfig(provider, key)
	p, err := a.newProvider(cfg)
	if err != nil {
		return &config.SetupError{Path: a.jsonStore.Location(), Err: err}
	}
	zap.L().Info("chat session", zap.String("file", name), zap.String("provider", p.Name()), zap.String("model", p.Model()))

	s := &Session{
		Doc:      doc,
		Provider: p,
		Config:   cfg,
		Prompt:   a.prompt,
		Speaker:  fmt.Sprintf("Chatbot (%s)", displayName(provider)),
		Greeting: `Ask me anything about the scraped content. Type "esc" to exit.`,
		Farewell: "Goodbye!",
		ExitWord: "esc",
	}
	return s.Run(ctx)
}

func (a *App) chooseProvider() (string, error) {
	if a.settings.Provider.Name != "" {
		return ai.Canonical(a.settings.Provider.Name)
	}
	names := ai.Names()
	labels := make([]string, len(names))
	for i, n := range names {
		labels[i] = displayName(n)
	}
	i, err := a.prompt.Choose("Which API do you want to use?", labels)
	if err != nil {
		return "", err
	}
	return names[i], nil
}

// Setup asks for every provider key and stores them in the JSON
// credentials file. It does nothing when that file already exists.
func (a *App) Setup() error {
	if a.jsonStore.Exists() {
		fmt.Fprintln(a.out, "API keys already set.")
		return nil
	}

	var keys config.Keys
	for _, provider := range ai.Names() {
		key, err := a.prompt.Secret(fmt.Sprintf("Enter your %s API key: ", displayName(provider)))
		if err != nil {
			return err
		}
		keys.Set(provider, key)
	}
	if err := a.jsonStore.Save(keys); err != nil {
		return eris.Wrap(err, "save api keys")
	}
	green.Fprintln(a.out, "API keys saved successfully.")
	return nil
}

// List prints the stored documents
func (a *App) List() error {
	names, err := a.store.List()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		yellow.Fprintf(a.out, "No JSON files found in %s.\n", a.store.Dir())
		return nil
	}
	for i, name := range names {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, name)
	}
	return nil
}
