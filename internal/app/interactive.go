package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/ai"
	"github.com/AK2k30/npm-web-scrapper/internal/document"
	"github.com/AK2k30/npm-web-scrapper/internal/scraper"
)

const (
	defaultInteractiveProvider = "groq"
	finishWord                 = "finish"
)

// Interactive scrapes a page in the browser, saves it, lets the user pick
// a stored document and chats about it.
func (a *App) Interactive(ctx context.Context) error {
	green.Fprintln(a.out, "Welcome to the Web Scraping and AI Q&A Chatbot CLI!")

	url, err := a.prompt.Ask("Please enter the URL of the website: ")
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Choose scraping method:")
	fmt.Fprintln(a.out, "1. Automatic scraping")
	fmt.Fprintln(a.out, "2. Custom class-based scraping")
	choice, err := a.prompt.Ask("Enter your choice (1 or 2): ")
	if err != nil {
		return err
	}

	var doc document.Value
	switch choice {
	case "1":
		stop := a.spin("Performing automatic scraping...")
		doc, err = scraper.NewAutoScraper(a.browser).Scrape(ctx, url)
		stop()
		if err != nil {
			return eris.Wrap(err, "automatic scraping")
		}
	case "2":
		selectors, err := a.askClasses()
		if err != nil {
			return err
		}
		stop := a.spin("Scraping data...")
		doc, err = scraper.NewSelectorScraper(a.browser).Scrape(ctx, url, selectors)
		stop()
		if err != nil {
			return eris.Wrap(err, "class-based scraping")
		}
	default:
		return &UserInputError{Msg: "Invalid choice. Exiting..."}
	}

	name, err := a.store.Save(doc)
	if err != nil {
		return eris.Wrap(err, "save scraped data")
	}
	green.Fprintf(a.out, "Data successfully scraped and saved to %s\n", name)

	fmt.Fprintf(a.out, "Checking for existing JSON files in %s...\n", a.store.Dir())
	selected, err := a.selectFile()
	if err != nil {
		return err
	}
	if selected == "" {
		yellow.Fprintln(a.out, "No JSON files found. Exiting...")
		return nil
	}

	fmt.Fprintln(a.out, "Do you want to start the Q&A chatbot with the selected JSON file?")
	start, err := a.prompt.Confirm(`Enter "yes" to start or any other key to exit: `)
	if err != nil {
		return err
	}
	if start {
		if err := a.chat(ctx, selected); err != nil {
			return err
		}
	}

	green.Fprintln(a.out, "Goodbye!")
	return nil
}

// Chat talks about a stored document. With an empty name the user picks
// one from the output directory.
func (a *App) Chat(ctx context.Context, name string) error {
	if name == "" {
		selected, err := a.selectFile()
		if err != nil {
			return err
		}
		if selected == "" {
			yellow.Fprintln(a.out, "No JSON files found. Exiting...")
			return nil
		}
		name = selected
	}
	if err := a.chat(ctx, name); err != nil {
		return err
	}
	green.Fprintln(a.out, "Goodbye!")
	return nil
}

func (a *App) chat(ctx context.Context, name string) error {
	doc, err := a.store.Load(name)
	if err != nil {
		return err
	}

	provider := a.settings.Provider.Name
	if provider == "" {
		provider = defaultInteractiveProvider
	}
	provider, err = ai.Canonical(provider)
	if err != nil {
		return err
	}

	key, err := a.keyFor(provider, a.envStore, true)
	if err != nil {
		return err
	}
	cfg := a.providerConfig(provider, key)
	p, err := a.newProvider(cfg)
	if err != nil {
		return err
	}
	zap.L().Info("chat session", zap.String("file", name), zap.String("provider", p.Name()), zap.String("model", p.Model()))

	s := &Session{
		Doc:         doc,
		Provider:    p,
		Config:      cfg,
		Prompt:      a.prompt,
		Speaker:     "AI Assistant",
		Greeting:    "Hello! I'm ready to answer questions about the scraped data. Type 'exit' to end the conversation. Type 'api key' to change your API key.",
		ExitWord:    "exit",
		Credentials: a.envStore,
	}
	return s.Run(ctx)
}

// askClasses collects class name and label pairs until the finish word
func (a *App) askClasses() ([]scraper.Selector, error) {
	var selectors []scraper.Selector
	for {
		class, err := a.prompt.Ask(`Enter a class name to scrape (or type "finish" to end): `)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(class, finishWord) {
			return selectors, nil
		}
		if class == "" {
			continue
		}
		label, err := a.prompt.Ask("Enter the title you want to assign to this data in JSON: ")
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, scraper.ClassSelector(label, class))
	}
}
