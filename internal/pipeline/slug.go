package pipeline

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives an anchor identifier from heading text: accents are
// stripped, letters and digits are lowercased, and runs of spaces, hyphens
// and underscores become a single hyphen. Other characters are dropped.
func Slugify(text string) string {
	// Transformers are stateful; build a fresh chain per call.
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(strip, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || unicode.IsSpace(r):
			pendingDash = true
		}
	}
	return b.String()
}

// slugRegistry hands out slugs that are unique within one document.
type slugRegistry struct {
	taken map[string]bool
}

func newSlugRegistry() *slugRegistry {
	return &slugRegistry{taken: make(map[string]bool)}
}

// unique returns base, or base-N with the smallest free N. An empty base
// becomes "section".
func (r *slugRegistry) unique(base string) string {
	if base == "" {
		base = "section"
	}
	slug := base
	for n := 1; r.taken[slug]; n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	r.taken[slug] = true
	return slug
}
