package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRenderer(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Acme</title></head><body><p class="x">Hello</p></body></html>`))
	}))
	defer srv.Close()

	r := NewHTTPRenderer(Options{UserAgent: "test-agent"})
	html, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "<title>Acme</title>")
	assert.Equal(t, "test-agent", gotUA)

	doc, err := NewSelectorScraper(r).Scrape(context.Background(), srv.URL, []Selector{ClassSelector("Greeting", "x")})
	require.NoError(t, err)
	assert.Equal(t, `{"Greeting":["Hello"]}`, doc.Compact())
}

func TestHTTPRendererErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPRenderer(Options{}).Render(context.Background(), srv.URL)
	require.Error(t, err)

	var se *ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "fetch", se.Op)
	assert.Contains(t, err.Error(), "404")
}

func TestHTTPRendererUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPRenderer(Options{NavigationTimeout: 2 * time.Second}).Render(context.Background(), url)
	require.Error(t, err)

	var se *ScrapeError
	assert.True(t, errors.As(err, &se))
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Width: 640}.withDefaults()
	assert.Equal(t, 640, o.Width)
	assert.Equal(t, 800, o.Height)
	assert.Equal(t, 100*time.Minute, o.NavigationTimeout)
	assert.NotEmpty(t, o.UserAgent)
}

func TestRodRenderer(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	if _, has := launcher.LookPath(); !has {
		t.Skip("no local Chromium")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>T</title></head><body><h1>H</h1>
<script>document.body.insertAdjacentHTML('beforeend', '<p class="late">rendered</p>')</script></body></html>`))
	}))
	defer srv.Close()

	r := NewRodRenderer(Options{NoSandbox: true, NavigationTimeout: 30 * time.Second})
	doc, err := NewSelectorScraper(r).Scrape(context.Background(), srv.URL, []Selector{ClassSelector("Late", "late")})
	require.NoError(t, err)
	assert.Equal(t, `{"Late":["rendered"]}`, doc.Compact())
}

func TestRodRendererOwnsProfile(t *testing.T) {
	assert.True(t, NewRodRenderer(Options{}).ownsProfile())
	assert.False(t, NewRodRenderer(Options{ProfileDir: t.TempDir()}).ownsProfile())
}

func TestRodRendererKeepsProfileDir(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	if _, has := launcher.LookPath(); !has {
		t.Skip("no local Chromium")
	}

	profile := t.TempDir()
	marker := filepath.Join(profile, "keep.txt")
	require.NoError(t, os.WriteFile(marker, []byte("session"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>P</title></head><body></body></html>`))
	}))
	defer srv.Close()

	r := NewRodRenderer(Options{NoSandbox: true, ProfileDir: profile, NavigationTimeout: 30 * time.Second})
	html, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "<title>P</title>")

	_, err = os.Stat(marker)
	assert.NoError(t, err, "profile directory must survive rendering")
}
