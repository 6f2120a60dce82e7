// Package prompt reads answers to interactive questions one line at a time.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rotisserie/eris"
	"golang.org/x/term"
)

// ErrClosed is returned once the input has no more lines
var ErrClosed = eris.New("prompt: input closed")

var labelColor = color.New(color.FgCyan)

// Prompter asks questions on out and reads the answers from in
type Prompter struct {
	ctx     context.Context
	in      *bufio.Reader
	out     io.Writer
	fd      int // terminal file descriptor for masked input, -1 if none
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// New creates a Prompter. When in is a terminal, Secret disables echo.
func New(in io.Reader, out io.Writer) *Prompter {
	return NewContext(context.Background(), in, out)
}

// NewContext creates a Prompter whose questions stop waiting for an answer
// once ctx is done.
func NewContext(ctx context.Context, in io.Reader, out io.Writer) *Prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Prompter{ctx: ctx, in: bufio.NewReader(in), out: out, fd: fd}
}

// Out returns the writer questions are printed to
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Ask prints label and returns the next line with surrounding space trimmed
func (p *Prompter) Ask(label string) (string, error) {
	labelColor.Fprint(p.out, label)
	return p.readLine()
}

// AskValid repeats the question until valid accepts the answer. The message
// valid returns is shown before asking again.
func (p *Prompter) AskValid(label string, valid func(string) string) (string, error) {
	for {
		answer, err := p.Ask(label)
		if err != nil {
			return "", err
		}
		msg := valid(answer)
		if msg == "" {
			return answer, nil
		}
		color.New(color.FgRed).Fprintf(p.out, ">> %s\n", msg)
	}
}

// Secret reads a line without echoing it when reading from a terminal
func (p *Prompter) Secret(label string) (string, error) {
	labelColor.Fprint(p.out, label)
	if p.fd < 0 {
		return p.readLine()
	}

	state, err := term.GetState(p.fd)
	if err != nil {
		return "", eris.Wrap(err, "prompt: terminal state")
	}
	done := make(chan lineResult, 1)
	go func() {
		raw, err := term.ReadPassword(p.fd)
		done <- lineResult{line: string(raw), err: err}
	}()

	select {
	case <-p.ctx.Done():
		_ = term.Restore(p.fd, state)
		fmt.Fprintln(p.out)
		return "", eris.Wrap(p.ctx.Err(), "prompt: interrupted")
	case r := <-done:
		fmt.Fprintln(p.out)
		if r.err != nil {
			return "", eris.Wrap(r.err, "prompt: read secret")
		}
		return strings.TrimSpace(r.line), nil
	}
}

// Confirm returns true only when the answer is "yes"
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Ask(label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "yes"), nil
}

// Choose lists options numbered from 1 and asks until a valid number is
// entered. It returns the zero-based index of the choice.
func (p *Prompter) Choose(label string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, eris.New("prompt: no options to choose from")
	}
	fmt.Fprintln(p.out, label)
	for i, opt := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, opt)
	}

	answer, err := p.AskValid(fmt.Sprintf("Enter your choice (1-%d): ", len(options)), func(s string) string {
		if _, ok := Index(s, len(options)); !ok {
			return "Please enter a number from the list"
		}
		return ""
	})
	if err != nil {
		return -1, err
	}
	i, _ := Index(answer, len(options))
	return i, nil
}

// Index converts a 1-based answer into a zero-based index below n
func Index(answer string, n int) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || i < 1 || i > n {
		return -1, false
	}
	return i - 1, true
}

// readLine waits for the next line or for the context to end. A read left
// unfinished by cancellation is picked up by the next call.
func (p *Prompter) readLine() (string, error) {
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		p.pending = ch
	}

	var r lineResult
	select {
	case <-p.ctx.Done():
		return "", eris.Wrap(p.ctx.Err(), "prompt: interrupted")
	case r = <-p.pending:
		p.pending = nil
	}

	line, err := r.line, r.err
	if err == io.EOF && line == "" {
		return "", ErrClosed
	}
	if err != nil && err != io.EOF {
		return "", eris.Wrap(err, "prompt: read line")
	}
	return strings.TrimSpace(line), nil
}
