// Package query turns a user question about a scraped document into a
// chat request, narrowing the document first when the question is a
// slash command such as "/title".
package query

import (
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/AK2k30/npm-web-scrapper/internal/document"
)

// ErrPartNotFound is returned for a narrow command whose term matches no key
var ErrPartNotFound = eris.New("query: no such part in the document")

var narrowRe = regexp.MustCompile(`^/(\w+)`)

const systemTemplate = "You are an AI assistant answering questions based on the following JSON data: %s. " +
	"Only answer questions related to this data. " +
	"If the question is not related or the answer is not in the data, politely say so."

// ChatRequest is a system prompt carrying the context plus the user's input
type ChatRequest struct {
	System  string
	User    string
	Context string
	Term    string // set for narrow commands
}

// NarrowTerm returns the term of a narrow command, if input is one
func NarrowTerm(input string) (string, bool) {
	m := narrowRe.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Route picks the context for input. A narrow command uses the extracted
// parts of doc; anything else uses the whole document.
func Route(doc document.Value, input string) (ChatRequest, error) {
	req := ChatRequest{User: input}

	if term, ok := NarrowTerm(input); ok {
		parts, found := document.Extract(doc, term)
		if !found {
			return ChatRequest{}, eris.Wrapf(ErrPartNotFound, "term %q", term)
		}
		req.Term = term
		req.Context = document.ArrayOf(parts...).Compact()
	} else {
		req.Context = doc.Compact()
	}

	req.System = fmt.Sprintf(systemTemplate, req.Context)
	return req, nil
}
