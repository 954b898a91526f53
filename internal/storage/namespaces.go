package storage

import (
	"sort"
	"strings"
)

// RootElement is the synthetic element wrapped around every payload.
const RootElement = "storage-root"

// NamespaceBase prefixes the synthetic URI declared for each prefix.
// The parser maps URIs under this base back to their short prefix.
const NamespaceBase = "https://storage2md.invalid/ns/"

// WrapNamespaces nests content inside a synthetic root that declares every
// namespace prefix used by element or attribute names. A leading XML
// declaration is dropped because it cannot appear inside the wrapper.
func WrapNamespaces(content string) string {
	wrapped, _ := wrap(content)
	return wrapped
}

// wrap returns the wrapped document and the number of bytes the wrapper
// shifted the original content by.
func wrap(content string) (string, int) {
	stripped := stripXMLDeclaration(content)
	header := wrapperHeader(collectPrefixes(stripped))

	var b strings.Builder
	b.Grow(len(header) + len(stripped) + len(RootElement) + 3)
	b.WriteString(header)
	b.WriteString(stripped)
	b.WriteString("</" + RootElement + ">")
	return b.String(), len(header) - (len(content) - len(stripped))
}

// wrapperHeader renders the opening root tag for the given prefixes.
func wrapperHeader(prefixes []string) string {
	var b strings.Builder
	b.WriteString("<" + RootElement)
	for _, p := range prefixes {
		b.WriteString(" xmlns:")
		b.WriteString(p)
		b.WriteString(`="`)
		b.WriteString(NamespaceBase)
		b.WriteString(p)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

// collectPrefixes returns the sorted set of prefixes found in tag and attribute names.
func collectPrefixes(content string) []string {
	seen := make(map[string]bool)
	segments := strings.Split(content, "<")
	for _, segment := range segments[1:] {
		if end := strings.IndexByte(segment, '>'); end >= 0 {
			segment = segment[:end]
		}
		segment = strings.TrimPrefix(segment, "/")
		if strings.HasPrefix(segment, "!") || strings.HasPrefix(segment, "?") {
			continue
		}

		fields := strings.Fields(segment)
		if len(fields) == 0 {
			continue
		}
		addPrefix(seen, strings.TrimSuffix(fields[0], "/"))
		for _, attr := range fields[1:] {
			name, _, ok := strings.Cut(attr, "=")
			if !ok {
				continue
			}
			addPrefix(seen, name)
		}
	}

	prefixes := make([]string, 0, len(seen))
	for p := range seen {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

func addPrefix(seen map[string]bool, name string) {
	prefix, _, ok := strings.Cut(name, ":")
	if !ok || !isValidPrefix(prefix) {
		return
	}
	// xml and xmlns are bound by the XML specification itself.
	if prefix == "xml" || prefix == "xmlns" {
		return
	}
	seen[prefix] = true
}

// isValidPrefix reports whether prefix only contains ASCII letters, digits, '-' or '_'.
func isValidPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, c := range prefix {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func stripXMLDeclaration(content string) string {
	trimmed := strings.TrimLeft(content, " \t\r\n\ufeff")
	if !strings.HasPrefix(trimmed, "<?xml") {
		return content
	}
	if end := strings.Index(trimmed, "?>"); end >= 0 {
		return trimmed[end+2:]
	}
	return content
}
