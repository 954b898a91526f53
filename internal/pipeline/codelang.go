package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// plainLanguages mark code without highlighting.
var plainLanguages = map[string]bool{
	"":          true,
	"none":      true,
	"plain":     true,
	"plaintext": true,
	"text":      true,
}

// NormalizeLanguage maps a code macro language to the canonical fence info
// string known to the highlighter ("sh" and "shell" both give "bash").
// Unknown hints are kept, lowercased.
func NormalizeLanguage(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if plainLanguages[hint] || strings.ContainsAny(hint, " `") {
		return ""
	}

	lexer := lexers.Get(hint)
	if lexer == nil {
		return hint
	}
	if aliases := lexer.Config().Aliases; len(aliases) > 0 {
		return aliases[0]
	}
	return hint
}
