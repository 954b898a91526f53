package pipeline

import (
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// builtinElements maps element names to their handlers. Names absent from
// the table fall back to rendering their children.
func builtinElements() map[string]elementHandler {
	return map[string]elementHandler{
		"h1": heading,
		"h2": heading,
		"h3": heading,
		"h4": heading,
		"h5": heading,
		"h6": heading,

		"p":          paragraph,
		"br":         lineBreak,
		"hr":         rule,
		"blockquote": blockquote,
		"pre":        preformatted,

		"strong": styled(styleStrong, "**"),
		"b":      styled(styleStrong, "**"),
		"em":     styled(styleEmphasis, "_"),
		"i":      styled(styleEmphasis, "_"),
		"s":      styled(styleStrike, "~~"),
		"del":    styled(styleStrike, "~~"),
		"strike": styled(styleStrike, "~~"),
		"code":   inlineCode,
		"sup":    htmlPassthrough("sup"),
		"u":      htmlPassthrough("u"),
		"sub":    htmlPassthrough("sub"),
		"time":   timeElement,

		"ul": func(c *Conversion, n *storage.Node) string { return c.list(n, listUnordered) },
		"ol": func(c *Conversion, n *storage.Node) string { return c.list(n, listOrdered) },

		"table": table,

		"a":           anchorLink,
		"img":         htmlImage,
		"ac:link":     storageLink,
		"ac:image":    storageImage,
		"ac:emoticon": emoticon,
		"ac:emoji":    emoticon,
		"span":        span,

		"ac:task-list": taskList,

		"ac:layout":         renderChildren,
		"ac:layout-section": renderChildren,
		"ac:layout-cell":    layoutCell,

		"ac:note":    legacyAdmonition("Note"),
		"ac:info":    legacyAdmonition("Info"),
		"ac:tip":     legacyAdmonition("Tip"),
		"ac:warning": legacyAdmonition("Warning"),

		"ac:adf-extension":         adfExtension,
		"ac:inline-comment-marker": renderChildren,
		"ac:rich-text-body":        renderChildren,
		"ac:placeholder":           drop,
		"ac:parameter":             drop,
		"ac:task-id":               drop,
		"ac:adf-attribute":         drop,
		"ri:attachment":            drop,
		"ri:page":                  drop,
		"ri:url":                   drop,
		"ri:user":                  drop,
		"colgroup":                 drop,
		"style":                    drop,
		"script":                   drop,
	}
}

func renderChildren(c *Conversion, n *storage.Node) string {
	return c.RenderChildren(n)
}

func drop(*Conversion, *storage.Node) string {
	return ""
}

// heading renders h1-h6 and registers a unique slug for the heading text.
// Headings inside table cells render as bold text; they get no anchor in
// the output, so they take no slug and stay out of the heading list.
func heading(c *Conversion, n *storage.Node) string {
	level := int(n.Name[1] - '0')
	text := c.RenderInline(n)
	if text == "" {
		return ""
	}
	if c.st.inTableCell() {
		return "**" + text + "**\n"
	}

	plain := plainText(n)
	slug := c.slugs.unique(Slugify(plain))
	c.headings = append(c.headings, Heading{Level: level, Text: plain, Slug: slug})

	return block(strings.Repeat("#", level) + " " + text)
}

// paragraph ends with a blank line, or with a single line inside table cells.
func paragraph(c *Conversion, n *storage.Node) string {
	content := trimBlock(c.RenderChildren(n))
	if content == "" {
		return ""
	}
	if c.st.inTableCell() {
		return content + "\n"
	}
	return block(content)
}

func lineBreak(c *Conversion, _ *storage.Node) string {
	switch {
	case c.st.inRaw():
		return "\n"
	case c.st.inTableCell():
		return cellBreak
	}
	return hardBreak + "\n"
}

func rule(c *Conversion, _ *storage.Node) string {
	if c.st.inTableCell() {
		return ""
	}
	return block("---")
}

func blockquote(c *Conversion, n *storage.Node) string {
	content := trimBlock(c.RenderChildren(n))
	if content == "" {
		return ""
	}
	if c.st.inTableCell() {
		return content + "\n"
	}
	return block(quote(content))
}

// preformatted renders <pre> as a fenced block, keeping whitespace intact.
func preformatted(c *Conversion, n *storage.Node) string {
	body := strings.Trim(n.TextContent(), "\n")
	if strings.TrimSpace(body) == "" {
		return ""
	}
	if c.st.inTableCell() {
		return codeLines(body)
	}
	return block(codeFence(body, ""))
}

// codeLines renders each non-blank line of body as inline code on its own line.
func codeLines(body string) string {
	var b strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(codeSpan(line))
		b.WriteByte('\n')
	}
	return b.String()
}

// styled wraps content in marker once: nested elements of the same style
// render their children bare so "**" never doubles up.
func styled(st inlineStyle, marker string) elementHandler {
	return func(c *Conversion, n *storage.Node) string {
		if c.st.styleActive(st) {
			return c.RenderChildren(n)
		}
		pop := c.st.pushStyle(st)
		defer pop()
		return wrapBlocks(c.RenderChildren(n), marker)
	}
}

// wrapBlocks applies wrapInline to each paragraph of s, since emphasis
// cannot span a blank line. Block syntax and fenced code stay bare.
func wrapBlocks(s, marker string) string {
	if !strings.Contains(trimBlock(s), "\n\n") {
		return wrapInline(s, marker)
	}
	parts := strings.Split(s, "\n\n")
	inFence := false
	for i, part := range parts {
		text := trimBlock(part)
		if text != "" && !inFence && !startsBlock(text) {
			parts[i] = wrapInline(part, marker)
		}
		for _, line := range strings.Split(part, "\n") {
			if fencedCodeBlock.MatchString(line) {
				inFence = !inFence
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

func inlineCode(c *Conversion, n *storage.Node) string {
	return codeSpan(singleLine(n.TextContent()))
}

func htmlPassthrough(tag string) elementHandler {
	return func(c *Conversion, n *storage.Node) string {
		content := c.RenderChildren(n)
		if strings.TrimSpace(content) == "" {
			return content
		}
		return "<" + tag + ">" + content + "</" + tag + ">"
	}
}

// timeElement renders the machine-readable date when the element has no text.
func timeElement(c *Conversion, n *storage.Node) string {
	if text := c.RenderChildren(n); strings.TrimSpace(text) != "" {
		return text
	}
	return n.AttrValue("datetime")
}

func layoutCell(c *Conversion, n *storage.Node) string {
	content := trimBlock(c.RenderChildren(n))
	if content == "" {
		return ""
	}
	return block(content)
}

// adfExtension renders a decision list it carries, and otherwise prefers the
// static fallback rendering shipped with the extension.
func adfExtension(c *Conversion, n *storage.Node) string {
	for _, node := range n.ChildrenNamed("ac:adf-node") {
		if node.AttrValue("type") != "decision-list" {
			continue
		}
		if out := c.adfDecisionList(node); out != "" {
			return out
		}
	}
	if fallback := n.Child("ac:adf-fallback"); fallback != nil {
		return c.RenderChildren(fallback)
	}
	if content := n.Child("ac:adf-content"); content != nil {
		return c.RenderChildren(content)
	}
	c.Warn(WarningDroppedFeature, "ac:adf-extension without fallback")
	return ""
}

func legacyAdmonition(label string) elementHandler {
	return func(c *Conversion, n *storage.Node) string {
		title := strings.TrimSpace(n.AttrValue("ac:title"))
		body := n.Child("ac:rich-text-body")
		if body == nil {
			body = n
		}
		return c.admonition(label, title, trimBlock(c.RenderChildren(body)))
	}
}

// plainText is the visible text of n: macro parameters are skipped and
// whitespace is collapsed.
func plainText(n *storage.Node) string {
	var b strings.Builder
	var walk func(*storage.Node)
	walk = func(n *storage.Node) {
		for _, child := range n.Children {
			switch {
			case child.Kind == storage.TextNode:
				b.WriteString(child.Text)
			case child.Name == "ac:parameter":
			default:
				walk(child)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(collapseWhitespace(b.String()))
}
