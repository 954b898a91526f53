package pipeline

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Opening or closing code fence, possibly indented inside a list item
	fencedCodeBlock = regexp.MustCompile("^ *(```+|~~~+)")

	// List item marker: indent, bullet or number, spacing
	listMarker = regexp.MustCompile(`^( *)([-*+]|\d{1,9}[.)])( +|$)`)

	// Trailing whitespace at end of line
	trailingSpace = regexp.MustCompile(`[ \t]+$`)
)

// listIndentUnit is the indentation of one nesting level in the output.
const listIndentUnit = 4

// PostProcess turns the raw traversal output into the final document:
// line breaks become backslash breaks, list nesting is indented by a fixed
// unit, runs of blank lines collapse to one and the text ends with a single
// newline. Fenced code is left as written apart from its list indentation.
// An empty document stays empty.
func PostProcess(content string) string {
	content = normalizeLineEndings(content)
	content = strings.NewReplacer(tocMarkStart, "", tocMarkEnd, "").Replace(content)

	lines := strings.Split(content, "\n")
	lines = resolveHardBreaks(lines)
	lines = normalizeLines(lines)

	out := strings.Trim(strings.Join(lines, "\n"), "\n")
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out + "\n"
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// resolveHardBreaks writes a break marker as a trailing backslash when a
// non-blank line follows, and drops it otherwise.
func resolveHardBreaks(lines []string) []string {
	for i, line := range lines {
		if !strings.Contains(line, hardBreak) {
			continue
		}
		trimmed := strings.TrimRight(strings.ReplaceAll(line, hardBreak, ""), " \t")
		hasNext := i+1 < len(lines) && strings.TrimSpace(strings.ReplaceAll(lines[i+1], hardBreak, "")) != ""
		if strings.HasSuffix(line, hardBreak) && hasNext && strings.TrimSpace(trimmed) != "" {
			trimmed += `\`
		}
		lines[i] = trimmed
	}
	return lines
}

// listLevel is one open list item seen by normalizeLines.
type listLevel struct {
	indent int // as rendered
	shift  int // added to reach the output indentation
}

// normalizeLines re-indents list items, strips trailing whitespace and
// collapses blank line runs. Lines inside a fence keep their content and
// only follow the indentation shift of the fence opener.
func normalizeLines(lines []string) []string {
	result := make([]string, 0, len(lines))
	var levels []listLevel
	var fence string
	fenceShift := 0
	blank := false

	for _, line := range lines {
		if fence != "" {
			result = append(result, shiftIndent(line, fenceShift))
			if closesFence(line, fence) {
				fence = ""
			}
			continue
		}

		line = trailingSpace.ReplaceAllString(line, "")
		if line == "" {
			if !blank && len(result) > 0 {
				result = append(result, "")
			}
			blank = true
			continue
		}
		blank = false

		indent := len(line) - len(strings.TrimLeft(line, " "))
		shift := 0
		if listMarker.MatchString(line) && !fencedCodeBlock.MatchString(line) {
			levels, shift = enterListLevel(levels, indent)
		} else {
			levels, shift = ownerShift(levels, indent)
		}
		line = shiftIndent(line, shift)

		if m := fencedCodeBlock.FindStringSubmatch(line); m != nil {
			fence, fenceShift = m[1], shift
		}
		result = append(result, line)
	}
	return result
}

// enterListLevel finds the level of a list item at indent and returns the
// shift that places it at a multiple of listIndentUnit.
func enterListLevel(levels []listLevel, indent int) ([]listLevel, int) {
	for len(levels) > 0 && levels[len(levels)-1].indent > indent {
		levels = levels[:len(levels)-1]
	}
	if n := len(levels); n > 0 && levels[n-1].indent == indent {
		return levels, levels[n-1].shift
	}

	target := indent
	if n := len(levels); n > 0 {
		parent := levels[n-1]
		target = parent.indent + parent.shift + listIndentUnit
	}
	levels = append(levels, listLevel{indent: indent, shift: target - indent})
	return levels, target - indent
}

// ownerShift returns the shift of the deepest item that owns a
// continuation line at indent. Unindented text closes every open list.
func ownerShift(levels []listLevel, indent int) ([]listLevel, int) {
	if indent == 0 {
		return levels[:0], 0
	}
	for len(levels) > 0 && levels[len(levels)-1].indent >= indent {
		levels = levels[:len(levels)-1]
	}
	if len(levels) == 0 {
		return levels, 0
	}
	return levels, levels[len(levels)-1].shift
}

// shiftIndent adds shift leading spaces, or removes up to -shift of them.
func shiftIndent(line string, shift int) string {
	switch {
	case shift > 0 && line != "":
		return strings.Repeat(" ", shift) + line
	case shift < 0:
		trim := min(-shift, len(line)-len(strings.TrimLeft(line, " ")))
		return line[trim:]
	}
	return line
}

// closesFence reports whether line closes a fence opened with marker.
func closesFence(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed[0] != marker[0] {
		return false
	}
	return len(strings.TrimLeft(trimmed, marker[:1])) == 0 && len(trimmed) >= len(marker)
}
