package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AK2k30/npm-web-scrapper/internal/ai"
	"github.com/AK2k30/npm-web-scrapper/internal/config"
	"github.com/AK2k30/npm-web-scrapper/internal/document"
	"github.com/AK2k30/npm-web-scrapper/internal/prompt"
	"github.com/AK2k30/npm-web-scrapper/internal/scraper"
	"github.com/AK2k30/npm-web-scrapper/internal/storage"
)

const page = `<html><head><title>Demo</title></head><body>
<h1>Welcome</h1>
<div class="hdr">Hi</div><div class="hdr">Bye</div>
<p>First paragraph</p>
<a href="/about">About</a>
</body></html>`

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	if f.err != nil {
		return "", &scraper.ScrapeError{URL: url, Op: "navigate", Err: f.err}
	}
	return f.html, nil
}

func (f *fakeRenderer) Name() string { return "fake" }

type fakeProvider struct {
	name    string
	replies []string
	err     error
	calls   [][]ai.Message
}

func (f *fakeProvider) Complete(_ context.Context, messages []ai.Message) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return "fake-model" }

type harness struct {
	app      *App
	out      *bytes.Buffer
	dir      string
	provider *fakeProvider
	built    []ai.Config
}

func newHarness(t *testing.T, input string, r scraper.Renderer, edit func(*config.Settings)) *harness {
	t.Helper()
	dir := t.TempDir()
	settings := config.Settings{
		Output: config.OutputConfig{Dir: dir},
		Credentials: config.CredentialsConfig{
			JSONFile: filepath.Join(dir, ".web-scraper-config.json"),
			EnvFile:  filepath.Join(dir, ".env"),
		},
	}
	if edit != nil {
		edit(&settings)
	}

	h := &harness{out: &bytes.Buffer{}, dir: dir}
	p := prompt.New(strings.NewReader(input), h.out)
	h.app = New(settings, p,
		WithRenderer(r),
		WithProviderFactory(func(cfg ai.Config) (ai.Provider, error) {
			h.built = append(h.built, cfg)
			h.provider = &fakeProvider{name: cfg.Name, replies: []string{"It says Hi and Bye."}}
			return h.provider, nil
		}),
	)
	return h
}

func mustParse(t *testing.T, s string) document.Value {
	t.Helper()
	v, err := document.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func (h *harness) files(t *testing.T) []string {
	t.Helper()
	names, err := storage.New(h.dir).List()
	require.NoError(t, err)
	return names
}

func TestInteractiveAutomatic(t *testing.T) {
	input := strings.Join([]string{
		"https://example.com",
		"1",
		"1",   // file selection
		"yes", // start chat
		"what is the title?",
		"EXIT",
	}, "\n") + "\n"
	h := newHarness(t, input, &fakeRenderer{html: page}, func(s *config.Settings) {
		s.Keys.Groq = "gsk-env"
	})

	require.NoError(t, h.app.Interactive(context.Background()))

	files := h.files(t)
	require.Len(t, files, 1)
	raw, err := os.ReadFile(filepath.Join(h.dir, files[0]))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title": "Demo"`)

	out := h.out.String()
	assert.Contains(t, out, "Data successfully scraped and saved to "+files[0])
	assert.Contains(t, out, "AI Assistant: It says Hi and Bye.")
	assert.Contains(t, out, "Goodbye!")

	require.Len(t, h.built, 1)
	assert.Equal(t, "groq", h.built[0].Name)
	assert.Equal(t, "gsk-env", h.built[0].APIKey)

	require.Len(t, h.provider.calls, 1)
	msgs := h.provider.calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, ai.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, `"title":"Demo"`)
	assert.Equal(t, ai.Message{Role: ai.RoleUser, Content: "what is the title?"}, msgs[1])
}

func TestInteractiveClassBased(t *testing.T) {
	input := strings.Join([]string{
		"https://example.com",
		"2",
		"hdr",
		"Header",
		"",
		"Finish",
		"1",
		"no",
	}, "\n") + "\n"
	h := newHarness(t, input, &fakeRenderer{html: page}, nil)

	require.NoError(t, h.app.Interactive(context.Background()))

	files := h.files(t)
	require.Len(t, files, 1)
	doc, err := storage.New(h.dir).Load(files[0])
	require.NoError(t, err)
	assert.Equal(t, `{"Header":["Hi","Bye"]}`, doc.Compact())
	assert.Empty(t, h.built, "chat declined")
	assert.Contains(t, h.out.String(), "Goodbye!")
}

func TestInteractiveInvalidChoice(t *testing.T) {
	h := newHarness(t, "https://example.com\n3\n", &fakeRenderer{html: page}, nil)

	err := h.app.Interactive(context.Background())
	var ue *UserInputError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "Invalid choice. Exiting...", ue.Msg)
	assert.Empty(t, h.files(t))
}

func TestInteractiveScrapeFailureWritesNothing(t *testing.T) {
	h := newHarness(t, "https://nonexistent.invalid\n1\n", &fakeRenderer{err: errors.New("net::ERR_NAME_NOT_RESOLVED")}, nil)

	err := h.app.Interactive(context.Background())
	require.Error(t, err)

	var se *scraper.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Empty(t, h.files(t))
	assert.Contains(t, err.Error(), "automatic scraping")
	assert.Contains(t, err.Error(), "ERR_NAME_NOT_RESOLVED")
	assert.NotContains(t, h.out.String(), "ERR_NAME_NOT_RESOLVED", "main reports the error once")
}

func TestInteractiveInvalidSelection(t *testing.T) {
	h := newHarness(t, "https://example.com\n1\n7\n", &fakeRenderer{html: page}, nil)

	err := h.app.Interactive(context.Background())
	var ue *UserInputError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "Invalid selection. Exiting...", ue.Msg)
	assert.Len(t, h.files(t), 1, "the scrape itself was saved")
}

func TestChatPromptsForMissingKey(t *testing.T) {
	h := newHarness(t, "1\ngsk-typed\nexit\n", &fakeRenderer{}, nil)
	_, err := storage.New(h.dir).Save(mustParse(t, `{"a":1}`))
	require.NoError(t, err)

	require.NoError(t, h.app.Chat(context.Background(), ""))

	require.Len(t, h.built, 1)
	assert.Equal(t, "gsk-typed", h.built[0].APIKey)

	keys, err := config.NewDotEnvStore(filepath.Join(h.dir, ".env")).Load()
	require.NoError(t, err)
	assert.Equal(t, "gsk-typed", keys.Groq)
}

func TestChatNoFiles(t *testing.T) {
	h := newHarness(t, "", &fakeRenderer{}, nil)
	require.NoError(t, h.app.Chat(context.Background(), ""))
	assert.Contains(t, h.out.String(), "No JSON files found")
}

func TestQuickFlow(t *testing.T) {
	input := strings.Join([]string{
		"sk-openai", "gm-gemini", "gsk-groq", "", // setup
		"not a url",
		"HTTPS://example.com/page",
		"3", // Groq
		"/header",
		"esc",
	}, "\n") + "\n"
	h := newHarness(t, input, &fakeRenderer{html: page}, nil)

	sel, err := scraper.ParseSelector("header=.hdr")
	require.NoError(t, err)
	require.NoError(t, h.app.Quick(context.Background(), []scraper.Selector{sel}))

	out := h.out.String()
	assert.Contains(t, out, "API keys saved successfully.")
	assert.Equal(t, 1, strings.Count(out, "Please enter a valid URL"))
	assert.Contains(t, out, "Website scraped successfully")
	assert.Contains(t, out, "You have chosen to use the Groq API.")
	assert.Contains(t, out, "Chatbot (Groq): It says Hi and Bye.")
	assert.Contains(t, out, "Chatbot (Groq): Goodbye!")

	keys, err := config.NewJSONFileStore(filepath.Join(h.dir, ".web-scraper-config.json")).Load()
	require.NoError(t, err)
	assert.Equal(t, config.Keys{OpenAI: "sk-openai", Gemini: "gm-gemini", Groq: "gsk-groq"}, keys)

	require.Len(t, h.built, 1)
	assert.Equal(t, "gsk-groq", h.built[0].APIKey)
	require.Len(t, h.provider.calls, 1)
	assert.Contains(t, h.provider.calls[0][0].Content, `JSON data: [["Hi","Bye"]].`)
	assert.Len(t, h.files(t), 1)
}

func TestQuickMissingKey(t *testing.T) {
	h := newHarness(t, "https://example.com\n4\n", &fakeRenderer{html: page}, nil)
	require.NoError(t, config.NewJSONFileStore(filepath.Join(h.dir, ".web-scraper-config.json")).Save(config.Keys{Groq: "g"}))

	err := h.app.Quick(context.Background(), nil)
	var se *config.SetupError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "API key for Claude is not set")
	assert.Contains(t, h.out.String(), "API keys already set.")
}

func TestQuickProviderFromSettings(t *testing.T) {
	h := newHarness(t, "https://example.com\nesc\n", &fakeRenderer{html: page}, func(s *config.Settings) {
		s.Provider.Name = "anthropic"
		s.Keys.Anthropic = "ant-env"
	})
	require.NoError(t, config.NewJSONFileStore(filepath.Join(h.dir, ".web-scraper-config.json")).Save(config.Keys{}))

	require.NoError(t, h.app.Quick(context.Background(), nil))
	require.Len(t, h.built, 1)
	assert.Equal(t, "claude", h.built[0].Name)
	assert.Equal(t, "ant-env", h.built[0].APIKey)
	assert.NotContains(t, h.out.String(), "Which API")
}

func TestQuickScrapeFailure(t *testing.T) {
	h := newHarness(t, "https://example.com\n", &fakeRenderer{err: errors.New("status 404 Not Found")}, nil)
	require.NoError(t, config.NewJSONFileStore(filepath.Join(h.dir, ".web-scraper-config.json")).Save(config.Keys{}))

	err := h.app.Quick(context.Background(), nil)
	var se *scraper.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, h.out.String(), "Failed to scrape website")
	assert.NotContains(t, h.out.String(), "404", "main reports the error once")
	assert.Empty(t, h.files(t))
}

func TestList(t *testing.T) {
	h := newHarness(t, "", &fakeRenderer{}, nil)
	require.NoError(t, h.app.List())
	assert.Contains(t, h.out.String(), "No JSON files found")

	name, err := storage.New(h.dir).Save(mustParse(t, `{}`))
	require.NoError(t, err)
	h.out.Reset()
	require.NoError(t, h.app.List())
	assert.Equal(t, "1. "+name+"\n", h.out.String())
}

func TestValidURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com":      true,
		"http://example.com/a?b=c": true,
		"HTTP://EXAMPLE.COM":       true,
		"ftp://example.com":        false,
		"example.com":              false,
		"https://":                 false,
		"https://exa mple.com":     false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidURL(in), in)
	}
}
