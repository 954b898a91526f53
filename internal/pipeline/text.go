package pipeline

import (
	"regexp"
	"strings"
)

// Private Use Area placeholders survive every rendering step untouched and
// are resolved after traversal.
const (
	hardBreak     = "\uE002" // precedes "\n" for an explicit line break
	tocMarkStart  = "\uE003"
	tocMarkEnd    = "\uE004"
	placeholderWS = " \t\r\n" + hardBreak
)

// cellBreak separates flattened blocks inside a table cell.
const cellBreak = "<br>"

var whitespaceRun = regexp.MustCompile(`[ \t\r\n]+`)

// collapseWhitespace folds runs of ASCII whitespace into one space, the way
// an HTML renderer displays them. Non-breaking spaces are kept.
func collapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// trimBlock strips surrounding whitespace and dangling line breaks.
func trimBlock(s string) string {
	return strings.Trim(s, placeholderWS)
}

// singleLine folds a rendered fragment onto one line.
func singleLine(s string) string {
	s = strings.ReplaceAll(s, hardBreak+"\n", " ")
	s = strings.ReplaceAll(s, hardBreak, "")
	return strings.TrimSpace(collapseWhitespace(s))
}

// block surrounds a block with blank lines. Extra blank lines are collapsed
// by the post-processor.
func block(s string) string {
	if s == "" {
		return ""
	}
	return "\n\n" + s + "\n\n"
}

// quote prefixes every line with a blockquote marker. Runs of blank lines
// outside code fences become one empty quote line. List nesting is
// re-indented first: once prefixed, the post-processor no longer sees the
// lines as list items.
func quote(s string) string {
	lines := normalizeLines(strings.Split(s, "\n"))
	out := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inFence = !inFence
		}
		if strings.TrimSpace(strings.ReplaceAll(line, hardBreak, "")) == "" {
			if !inFence && len(out) > 0 && out[len(out)-1] == ">" {
				continue
			}
			out = append(out, ">")
			continue
		}
		out = append(out, "> "+line)
	}
	return strings.Join(out, "\n")
}

// indentContinuation indents every line but the first by width spaces.
func indentContinuation(s string, width int) string {
	lines := strings.Split(s, "\n")
	pad := strings.Repeat(" ", width)
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// indentLines indents every non-blank line of s by width spaces.
func indentLines(s string, width int) string {
	return strings.Repeat(" ", width) + indentContinuation(s, width)
}

// flattenCell joins the lines of rendered cell content with an inline break
// and escapes pipes so the cell stays a single table column.
func flattenCell(s string) string {
	s = strings.ReplaceAll(s, hardBreak+"\n", cellBreak)
	s = strings.ReplaceAll(s, hardBreak, "")

	var parts []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == cellBreak {
			continue
		}
		parts = append(parts, line)
	}
	return escapePipes(strings.Join(parts, cellBreak))
}

// escapePipes escapes table column separators that are not escaped yet.
func escapePipes(s string) string {
	if !strings.Contains(s, "|") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if s[i] == '|' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// wrapInline surrounds s with marker, keeping outer whitespace outside the
// markers so the result stays valid emphasis.
func wrapInline(s, marker string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}
	start := strings.Index(s, trimmed)
	return s[:start] + marker + trimmed + marker + s[start+len(trimmed):]
}

// codeSpan renders s as inline code, widening the fence when s contains backticks.
func codeSpan(s string) string {
	if s == "" {
		return ""
	}
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if len(fence) > 1 || strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// codeFence renders a fenced code block whose fence is longer than any
// backtick run in body.
func codeFence(body, lang string) string {
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + body + "\n" + fence
}
