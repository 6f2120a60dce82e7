package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/AK2k30/npm-web-scrapper/internal/ai"
	"github.com/AK2k30/npm-web-scrapper/internal/config"
	"github.com/AK2k30/npm-web-scrapper/internal/document"
	"github.com/AK2k30/npm-web-scrapper/internal/prompt"
	"github.com/AK2k30/npm-web-scrapper/internal/query"
)

const (
	notFoundReply = "Sorry, I couldn't find that part in the data."
	emptyReply    = "Sorry, I couldn't generate a response."
	errorReply    = "I'm sorry, I encountered an error while processing your question. Please try again."

	keyCommand = "api key"
)

// Session answers questions about one document until the user leaves
type Session struct {
	Doc      document.Value
	Provider ai.Provider
	Config   ai.Config // what Provider was built from

	Prompt   *prompt.Prompter
	Speaker  string // prefix of every reply
	Greeting string
	Farewell string // printed on the exit word; may be empty
	ExitWord string

	// Credentials receives keys entered with the "api key" command. A nil
	// store disables the command.
	Credentials config.CredentialStore
}

// Run loops until the exit word, end of input or ctx is done
func (s *Session) Run(ctx context.Context) error {
	out := s.Prompt.Out()
	blue.Fprintf(out, "%s: %s\n", s.Speaker, s.Greeting)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := s.Prompt.Ask("You: ")
		if errors.Is(err, prompt.ErrClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		if input == "" {
			continue
		}

		if strings.EqualFold(input, s.ExitWord) {
			if s.Farewell != "" {
				blue.Fprintf(out, "%s: %s\n", s.Speaker, s.Farewell)
			}
			return nil
		}
		if s.Credentials != nil && strings.EqualFold(input, keyCommand) {
			if err := s.updateKey(); err != nil {
				return err
			}
			continue
		}

		reply, err := s.Answer(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			red.Fprintf(out, "Error getting AI response: %v\n", err)
			reply = errorReply
		}
		blue.Fprintf(out, "%s: %s\n", s.Speaker, reply)
	}
}

// Answer routes input and asks the provider. Questions about a part that
// is not in the document are answered without calling the provider.
func (s *Session) Answer(ctx context.Context, input string) (string, error) {
	req, err := query.Route(s.Doc, input)
	if errors.Is(err, query.ErrPartNotFound) {
		zap.L().Debug("narrow term not found", zap.String("input", input))
		return notFoundReply, nil
	}
	if err != nil {
		return "", err
	}

	zap.L().Debug("asking provider",
		zap.String("provider", s.Provider.Name()),
		zap.String("term", req.Term),
		zap.Int("context_bytes", len(req.Context)),
	)
	answer, err := s.Provider.Complete(ctx, ai.Conversation(req.System, req.User))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return emptyReply, nil
	}
	return answer, nil
}

// updateKey swaps in a provider built with a newly entered key. A failed
// attempt leaves the current provider in place.
func (s *Session) updateKey() error {
	out := s.Prompt.Out()
	name := displayName(s.Config.Name)

	key, err := s.Prompt.Secret(fmt.Sprintf("Enter your new %s API key: ", name))
	if err != nil {
		return err
	}
	if key == "" {
		yellow.Fprintln(out, "No key entered, keeping the current one.")
		return nil
	}

	p, next, err := ai.Reconfigure(s.Config, key)
	if err != nil {
		red.Fprintf(out, "Could not use the new key: %v\n", err)
		return nil
	}

	keys, err := s.Credentials.Load()
	if err != nil {
		var se *config.SetupError
		if !errors.As(err, &se) {
			return err
		}
	}
	keys.Set(s.Config.Name, key)
	if err := s.Credentials.Save(keys); err != nil {
		red.Fprintf(out, "Could not store the new key: %v\n", err)
	}

	s.Provider, s.Config = p, next
	green.Fprintf(out, "%s API key updated.\n", name)
	return nil
}
