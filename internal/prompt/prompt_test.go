package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestAsk(t *testing.T) {
	p, out := newPrompter("  https://example.com \r\nlast")

	got, err := p.Ask("URL: ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", got)
	assert.Contains(t, out.String(), "URL: ")

	got, err = p.Ask("next: ")
	require.NoError(t, err)
	assert.Equal(t, "last", got, "final line without newline")

	_, err = p.Ask("more: ")
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestAskValid(t *testing.T) {
	p, out := newPrompter("nope\nok\n")

	got, err := p.AskValid("value: ", func(s string) string {
		if s != "ok" {
			return "try again"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, strings.Count(out.String(), "try again"))
}

func TestSecretWithoutTerminal(t *testing.T) {
	p, _ := newPrompter("sk-123\n")

	got, err := p.Secret("key: ")
	require.NoError(t, err)
	assert.Equal(t, "sk-123", got)
}

func TestConfirm(t *testing.T) {
	p, _ := newPrompter("YES\nno\n")

	ok, err := p.Confirm("start? ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Confirm("start? ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChoose(t *testing.T) {
	p, out := newPrompter("0\nabc\n3\n")

	i, err := p.Choose("Which API?", []string{"OpenAI", "Gemini", "Groq"})
	require.NoError(t, err)
	assert.Equal(t, 2, i)
	assert.Contains(t, out.String(), "1. OpenAI\n2. Gemini\n3. Groq\n")

	_, err = p.Choose("empty", nil)
	assert.Error(t, err)
}

func TestChooseClosedInput(t *testing.T) {
	p, _ := newPrompter("9\n")

	_, err := p.Choose("pick", []string{"a"})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestIndex(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want int
		ok   bool
	}{
		{"1", 3, 0, true},
		{" 3 ", 3, 2, true},
		{"4", 3, -1, false},
		{"0", 3, -1, false},
		{"-1", 3, -1, false},
		{"x", 3, -1, false},
		{"", 3, -1, false},
	}
	for _, tt := range tests {
		got, ok := Index(tt.in, tt.n)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestAskInterrupted(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	p := NewContext(ctx, pr, &out)

	go func() { _, _ = io.WriteString(pw, "first\n") }()
	answer, err := p.Ask("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", answer)

	// nothing more is written, so only cancellation can end the wait
	cancel()
	_, err = p.Ask("> ")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrClosed))

	_, err = p.Secret("key: ")
	assert.True(t, errors.Is(err, context.Canceled))
}
