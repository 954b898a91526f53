package pipeline

import (
	"strconv"
	"strings"
)

// tocRequest is a toc macro waiting for the heading list. Headings that
// follow the macro are only known once the whole document is rendered.
type tocRequest struct {
	minLevel int
	maxLevel int
	outline  bool
	inline   bool
}

// tocMacro records the request and leaves a placeholder in the output.
func tocMacro(c *Conversion, m *Macro) string {
	req := tocRequest{
		minLevel: levelParam(m.Param("minLevel", "minlevel"), 1),
		maxLevel: levelParam(m.Param("maxLevel", "maxlevel"), 6),
		outline:  strings.EqualFold(m.Param("outline"), "true"),
		inline:   c.st.inTableCell() || strings.EqualFold(m.Param("type"), "flat"),
	}
	if req.minLevel > req.maxLevel {
		req.minLevel, req.maxLevel = req.maxLevel, req.minLevel
	}
	c.tocs = append(c.tocs, req)

	marker := tocMarkStart + strconv.Itoa(len(c.tocs)-1) + tocMarkEnd
	if req.inline {
		return marker
	}
	return block(marker)
}

// levelParam parses a heading level, clamped to 1..6.
func levelParam(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return min(max(n, 1), 6)
}

// resolveTOCs replaces every placeholder with the list of its headings.
func (c *Conversion) resolveTOCs(body string) string {
	if len(c.tocs) == 0 {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for {
		start := strings.Index(body, tocMarkStart)
		if start < 0 {
			break
		}
		end := strings.Index(body[start:], tocMarkEnd)
		if end < 0 {
			break
		}
		end += start

		b.WriteString(body[:start])
		if i, err := strconv.Atoi(body[start+len(tocMarkStart) : end]); err == nil && i < len(c.tocs) {
			b.WriteString(c.renderTOC(c.tocs[i]))
		}
		body = body[end+len(tocMarkEnd):]
	}
	b.WriteString(body)
	return b.String()
}

// renderTOC builds a nested list of links to the headings in range. With
// outline set each entry carries its section number.
func (c *Conversion) renderTOC(req tocRequest) string {
	numbering := newNumberingState()
	var entries []string
	for _, h := range c.headings {
		if h.Level < req.minLevel || h.Level > req.maxLevel {
			continue
		}
		num, depth := numbering.next(h.Level)

		text := escapeLinkText(h.Text)
		if req.outline {
			text = num + " " + text
		}
		link := markdownLink(text, c.resolve("#"+h.Slug, "#"+h.Slug, TargetAnchor))
		if req.inline {
			entries = append(entries, link)
			continue
		}
		entries = append(entries, strings.Repeat("    ", depth-1)+"- "+link)
	}

	if req.inline {
		return strings.Join(entries, ", ")
	}
	return strings.Join(entries, "\n")
}

// escapeLinkText escapes brackets so heading text cannot close the link early.
func escapeLinkText(s string) string {
	return strings.NewReplacer(`[`, `\[`, `]`, `\]`).Replace(s)
}

// numberingState tracks hierarchical numbering for TOC entries.
// The shallowest first heading becomes level 1 and skipped levels collapse.
type numberingState struct {
	counters     [6]int // counters[0] = level 1 count, etc.
	minLevelSeen int
	lastLevel    int
}

func newNumberingState() *numberingState {
	return &numberingState{}
}

// next returns the number string ("1.2.") and the effective depth for a
// heading at level.
func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	effectiveDepth = max(level-n.minLevelSeen+1, 1)

	// H1 -> H3 becomes depth 1 -> depth 2
	if n.lastLevel > 0 && effectiveDepth > n.lastLevel+1 {
		effectiveDepth = n.lastLevel + 1
	}

	for i := effectiveDepth; i < 6; i++ {
		n.counters[i] = 0
	}
	n.counters[effectiveDepth-1]++
	n.lastLevel = effectiveDepth

	parts := make([]string, 0, effectiveDepth)
	for i := 0; i < effectiveDepth; i++ {
		parts = append(parts, strconv.Itoa(n.counters[i]))
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}
