package storage

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// namedReference matches a named character reference such as &nbsp; or &hellip;.
var namedReference = regexp.MustCompile(`&([A-Za-z][A-Za-z0-9]{1,31});`)

// xmlPredefined are the only named references an XML parser resolves on its own.
var xmlPredefined = map[string]bool{
	"amp":  true,
	"lt":   true,
	"gt":   true,
	"quot": true,
	"apos": true,
}

// NormalizeEntities rewrites HTML named character references that XML does not
// define into numeric references. References that are not known HTML entities
// are left untouched so the parser can report them.
func NormalizeEntities(content string) string {
	if !strings.Contains(content, "&") {
		return content
	}
	return namedReference.ReplaceAllStringFunc(content, func(ref string) string {
		name := ref[1 : len(ref)-1]
		if xmlPredefined[name] {
			return ref
		}
		decoded := html.UnescapeString(ref)
		if decoded == ref {
			return ref
		}
		var b strings.Builder
		for _, r := range decoded {
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte(';')
		}
		return b.String()
	})
}
