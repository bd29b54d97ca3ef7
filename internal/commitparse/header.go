// Package commitparse turns commit messages into changelog notes: it parses
// conventional-commit headers and maps commit types to changelog sections.
package commitparse

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Header is a parsed conventional-commit header: type(scope)!: message.
type Header struct {
	Type     string `parser:"@Type"`
	Scope    string `parser:"( ScopeOpen @ScopeText ScopeClose )?"`
	Breaking bool   `parser:"@Bang?"`
	Message  string `parser:"Colon @Rest"`
}

// headerLexer switches state on "(" and ":" so that scopes may contain
// spaces and the message may contain anything.
var headerLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Type", Pattern: `[^\s:()!]+`},
		{Name: "ScopeOpen", Pattern: `\(`, Action: lexer.Push("Scope")},
		{Name: "Bang", Pattern: `!`},
		{Name: "Colon", Pattern: `:`, Action: lexer.Push("Message")},
	},
	"Scope": {
		{Name: "ScopeText", Pattern: `[^()]+`},
		{Name: "ScopeClose", Pattern: `\)`, Action: lexer.Pop()},
	},
	"Message": {
		{Name: "Space", Pattern: `[ \t\r]+`},
		{Name: "Rest", Pattern: `[^\n]+`},
	},
})

var headerParser = participle.MustBuild[Header](
	participle.Lexer(headerLexer),
	participle.Elide("Space"),
)

// ParseHeader parses the first line of a commit message.
func ParseHeader(title string) (Header, error) {
	title, _, _ = strings.Cut(title, "\n")
	h, err := headerParser.ParseString("", strings.TrimSpace(title))
	if err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
	}
	h.Scope = strings.TrimSpace(h.Scope)
	h.Message = strings.TrimSpace(h.Message)
	return *h, nil
}
