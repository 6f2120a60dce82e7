// Package app wires scraping, persistence and chat into the interactive
// command-line flows.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/ai"
	"github.com/AK2k30/npm-web-scrapper/internal/config"
	"github.com/AK2k30/npm-web-scrapper/internal/prompt"
	"github.com/AK2k30/npm-web-scrapper/internal/scraper"
	"github.com/AK2k30/npm-web-scrapper/internal/storage"
)

// UserInputError ends a flow early because of an unusable answer. It is
// reported to the user but is not a failure.
type UserInputError struct {
	Msg string
}

func (e *UserInputError) Error() string {
	return e.Msg
}

var (
	green  = color.New(color.FgGreen)
	blue   = color.New(color.FgBlue)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
)

var displayNames = map[string]string{
	"openai": "OpenAI",
	"gemini": "Gemini",
	"groq":   "Groq",
	"claude": "Claude",
}

func displayName(provider string) string {
	if n, ok := displayNames[provider]; ok {
		return n
	}
	return provider
}

// App runs the command-line flows
type App struct {
	settings    config.Settings
	prompt      *prompt.Prompter
	out         io.Writer
	store       *storage.Store
	envStore    config.CredentialStore
	jsonStore   config.CredentialStore
	browser     scraper.Renderer
	fetcher     scraper.Renderer
	newProvider func(ai.Config) (ai.Provider, error)
}

// Option customizes an App
type Option func(*App)

// WithRenderer makes every flow load pages through r
func WithRenderer(r scraper.Renderer) Option {
	return func(a *App) {
		a.browser = r
		a.fetcher = r
	}
}

// WithProviderFactory replaces how chat providers are built
func WithProviderFactory(f func(ai.Config) (ai.Provider, error)) Option {
	return func(a *App) {
		a.newProvider = f
	}
}

// New creates an App from settings, asking questions through p
func New(settings config.Settings, p *prompt.Prompter, opts ...Option) *App {
	renderOpts := scraper.Options{
		Width:             settings.Scrape.Width,
		Height:            settings.Scrape.Height,
		NavigationTimeout: settings.Scrape.NavigationTimeout,
		ProfileDir:        settings.Scrape.ProfileDir,
		NoSandbox:         settings.Scrape.NoSandbox,
		UserAgent:         settings.Scrape.UserAgent,
	}
	fetchOpts := renderOpts
	fetchOpts.NavigationTimeout = settings.Scrape.HTTPTimeout

	a := &App{
		settings:    settings,
		prompt:      p,
		out:         p.Out(),
		store:       storage.New(settings.Output.Dir),
		envStore:    config.NewDotEnvStore(settings.Credentials.EnvFile),
		jsonStore:   config.NewJSONFileStore(settings.Credentials.JSONFile),
		browser:     scraper.NewRodRenderer(renderOpts),
		fetcher:     scraper.NewHTTPRenderer(fetchOpts),
		newProvider: ai.NewProvider,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) providerConfig(name, key string) ai.Config {
	return ai.Config{
		Name:              name,
		Model:             a.settings.Provider.Model,
		APIKey:            key,
		BaseURL:           a.settings.Provider.BaseURL,
		MaxTokens:         a.settings.Provider.MaxTokens,
		RequestsPerMinute: a.settings.Provider.RequestsPerMinute,
	}
}

// spin shows msg with a spinner while a long step runs. The returned func
// stops it.
func (a *App) spin(msg string) func() {
	f, ok := a.out.(*os.File)
	if !ok {
		fmt.Fprintln(a.out, msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriterFile(f),
		spinner.WithSuffix(" "+msg),
	)
	s.Start()
	return s.Stop
}

// selectFile lists the stored documents and asks for one by number
func (a *App) selectFile() (string, error) {
	names, err := a.store.List()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}

	fmt.Fprintln(a.out, "Available JSON files:")
	for i, name := range names {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, name)
	}
	answer, err := a.prompt.Ask("Select a JSON file by number: ")
	if err != nil {
		return "", err
	}
	i, ok := prompt.Index(answer, len(names))
	if !ok {
		return "", &UserInputError{Msg: "Invalid selection. Exiting..."}
	}
	fmt.Fprintf(a.out, "You selected: %s\n", names[i])
	return names[i], nil
}

// keyFor finds the key for provider in store, falling back to the
// environment. When ask is set a missing key is asked for and stored.
func (a *App) keyFor(provider string, store config.CredentialStore, ask bool) (string, error) {
	keys, err := store.Load()
	if err != nil {
		var se *config.SetupError
		if !errors.As(err, &se) || ask {
			return "", err
		}
	}
	if key := keys.Merge(a.settings.Keys).For(provider); key != "" {
		return key, nil
	}
	name := displayName(provider)
	if !ask {
		return "", &config.SetupError{Path: store.Location(), Err: eris.Errorf("API key for %s is not set", name)}
	}

	fmt.Fprintf(a.out, "%s API key not found. Please enter your %s API key.\n", name, name)
	key, err := a.prompt.Secret(fmt.Sprintf("Enter your %s API key: ", name))
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", &config.SetupError{Path: store.Location(), Err: eris.Errorf("no %s API key given", name)}
	}

	keys.Set(provider, key)
	if err := store.Save(keys); err != nil {
		return "", err
	}
	fmt.Fprintf(a.out, "%s API key stored in %s.\n", name, store.Location())
	zap.L().Debug("stored api key", zap.String("provider", provider), zap.String("path", store.Location()))
	return key, nil
}
