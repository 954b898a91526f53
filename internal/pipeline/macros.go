package pipeline

import (
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// Macro is one parsed macro invocation.
type Macro struct {
	Name      string
	Params    map[string]string
	// Body is the ac:rich-text-body element, nil when the macro has none.
	Body      *storage.Node
	// PlainBody is the ac:plain-text-body text with line endings normalized.
	PlainBody string
	Node      *storage.Node
}

// Param returns the first non-empty parameter among names.
// The unnamed default parameter is looked up with "".
func (m *Macro) Param(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(m.Params[name]); v != "" {
			return v
		}
	}
	return ""
}

// MacroHandler renders one macro. Handlers recurse into the body through
// the Conversion and must keep the output single-line when InTableCell is true.
type MacroHandler func(c *Conversion, m *Macro) string

// builtinMacros returns a fresh registry of the built-in handlers.
func builtinMacros() map[string]MacroHandler {
	registry := map[string]MacroHandler{
		"info":    admonitionMacro("Info"),
		"note":    admonitionMacro("Note"),
		"warning": admonitionMacro("Warning"),
		"tip":     admonitionMacro("Tip"),
		"panel":   panelMacro,

		"code":       codeMacro,
		"code-block": codeMacro,
		"noformat":   codeMacro,

		"status":    statusMacro,
		"expand":    expandMacro,
		"ui-expand": expandMacro,
		"anchor":    anchorMacro,
		"toc":       tocMacro,
		"emoji":     emojiMacro,
		"emoticon":  emojiMacro,

		"excerpt":         excerptMacro,
		"excerpt-include": includeMacro,
		"include":         includeMacro,
		"jira":            jiraMacro,

		"decision":       decisionMacro,
		"decision-list":  decisionListMacro,
		"decisionreport": decisionReportMacro,

		"section": bodyMacro,
		"column":  bodyMacro,
		"details": bodyMacro,
	}
	for _, name := range dynamicMacros {
		registry[name] = dynamicMacro
	}
	return registry
}

// dynamicMacros compute their content when a page is viewed; exported
// pages only say that something was there.
var dynamicMacros = []string{
	"blog-posts",
	"children",
	"contentbylabel",
	"livesearch",
	"pagetree",
	"pagetreesearch",
	"recently-updated",
	"tasks-report-macro",
}

func isMacro(n *storage.Node) bool {
	return n.Name == "ac:structured-macro" || n.Name == "ac:macro"
}

// renderMacro resolves n through the registry. Unknown macros keep their
// title and body behind a visible marker.
func (c *Conversion) renderMacro(n *storage.Node) string {
	m := parseMacro(n)
	if h, ok := c.engine.macros[m.Name]; ok {
		return h(c, m)
	}
	c.Warn(WarningUnknownMacro, m.Name)
	return unknownMacro(c, m)
}

func parseMacro(n *storage.Node) *Macro {
	m := &Macro{
		Name:   strings.ToLower(strings.TrimSpace(n.AttrValue("ac:name"))),
		Params: make(map[string]string),
		Body:   n.Child("ac:rich-text-body"),
		Node:   n,
	}
	for _, p := range n.ChildrenNamed("ac:parameter") {
		m.Params[p.AttrValue("ac:name")] = parameterValue(p)
	}
	if body := n.Child("ac:plain-text-body"); body != nil {
		m.PlainBody = normalizeLineEndings(body.TextContent())
	}
	return m
}

// parameterValue returns the parameter text, or the main attribute of a
// resource identifier when the parameter only holds one.
func parameterValue(p *storage.Node) string {
	if text := strings.TrimSpace(p.TextContent()); text != "" {
		return text
	}
	res := p.FindElement("ri:")
	for _, attr := range []string{
		"ri:content-title", "ri:filename", "ri:value",
		"ri:username", "ri:userkey", "ri:account-id", "ri:space-key",
	} {
		if v := res.AttrValue(attr); v != "" {
			return v
		}
	}
	return ""
}

// MacroBody renders the body of m: the rich-text body when present, else
// the plain-text body as written.
func (c *Conversion) MacroBody(m *Macro) string {
	if m.Body != nil {
		return trimBlock(c.RenderChildren(m.Body))
	}
	return strings.Trim(m.PlainBody, "\n")
}

// unknownMacro keeps what an unknown macro carries: a `{name}` marker, the
// title parameter in bold and the body verbatim.
func unknownMacro(c *Conversion, m *Macro) string {
	name := m.Name
	if name == "" {
		name = "macro"
	}
	header := codeSpan("{" + name + "}")
	if title := m.Param("title"); title != "" {
		header += " **" + title + "**"
	}

	body := c.MacroBody(m)
	switch {
	case c.st.inTableCell():
		return strings.TrimSpace(header+" "+body) + "\n"
	case body == "" && m.Body == nil:
		return header
	case body == "":
		return block(header)
	case m.Body == nil && strings.Contains(body, "\n"):
		return block(header + "\n\n" + codeFence(body, ""))
	case m.Body == nil:
		return header + " " + body
	case !strings.Contains(body, "\n"):
		return block(header + " " + body)
	}
	return block(header + "\n\n" + body)
}

// admonition renders a labeled blockquote. Inside table cells the label and
// body stay on one line.
func (c *Conversion) admonition(label, title, body string) string {
	head := "**" + label + ":**"
	if title != "" {
		head = "**" + label + ": " + title + "**"
	}

	switch {
	case c.st.inTableCell():
		return strings.TrimSpace(head+" "+body) + "\n"
	case body == "":
		return block(quote(head))
	case title == "" && !startsBlock(body):
		return block(quote(head + " " + body))
	}
	return block(quote(head + "\n\n" + body))
}

// startsBlock reports whether s opens with block syntax that cannot follow
// a label on the same line.
func startsBlock(s string) bool {
	return listMarker.MatchString(s) ||
		strings.HasPrefix(s, "#") ||
		strings.HasPrefix(s, ">") ||
		strings.HasPrefix(s, "|") ||
		fencedCodeBlock.MatchString(s)
}

// notice renders an italic note, quoted when it stands as a block.
func (c *Conversion) notice(text string) string {
	text = "_" + text + "_"
	if c.st.inTableCell() {
		return text
	}
	return block(quote(text))
}

func admonitionMacro(label string) MacroHandler {
	return func(c *Conversion, m *Macro) string {
		return c.admonition(label, m.Param("title"), c.MacroBody(m))
	}
}

func bodyMacro(c *Conversion, m *Macro) string {
	body := c.MacroBody(m)
	if c.st.inTableCell() {
		return body + "\n"
	}
	return block(body)
}

func dynamicMacro(c *Conversion, m *Macro) string {
	c.Warn(WarningDroppedFeature, m.Name)
	return c.notice("Dynamic content (" + m.Name + " macro) is not exported.")
}

// panelColors and panelIcons give a panel its label when it has no title.
var (
	panelColors = map[string]string{
		"#deebff": "Info",
		"#e3fcef": "Success",
		"#eae6ff": "Note",
		"#fffae6": "Warning",
		"#ffebe6": "Error",
	}
	panelIcons = map[string]string{
		"atlassian-check_mark": "Success",
		"atlassian-cross_mark": "Error",
		"atlassian-info":       "Info",
		"atlassian-note":       "Note",
		"atlassian-warning":    "Warning",
		"bulb":                 "Tip",
		"check_mark":           "Success",
		"cross_mark":           "Error",
		"info":                 "Info",
		"information_source":   "Info",
		"note":                 "Note",
		"warning":              "Warning",
		"white_check_mark":     "Success",
		"x":                    "Error",
	}
)

// panelMacro labels the panel by its title, then by its icon or color.
func panelMacro(c *Conversion, m *Macro) string {
	body := c.MacroBody(m)
	if title := m.Param("title"); title != "" {
		return c.admonition(title, "", body)
	}
	return c.admonition(panelLabel(m), "", body)
}

func panelLabel(m *Macro) string {
	icon := strings.Trim(strings.ToLower(m.Param("panelIcon", "panelIconId")), ":")
	if label, ok := panelIcons[icon]; ok {
		return label
	}
	if label, ok := panelColors[strings.ToLower(m.Param("bgColor", "backgroundColor"))]; ok {
		return label
	}
	return "Panel"
}

// codeMacro renders code, code-block and noformat as a fenced block with an
// optional bold caption. Inside table cells each line becomes inline code.
func codeMacro(c *Conversion, m *Macro) string {
	body := strings.Trim(m.PlainBody, "\n")
	if body == "" && m.Body != nil {
		body = strings.Trim(normalizeLineEndings(m.Body.TextContent()), "\n")
	}
	if strings.TrimSpace(body) == "" {
		return ""
	}
	if c.st.inTableCell() {
		return codeLines(body)
	}

	lang := ""
	if m.Name != "noformat" {
		lang = NormalizeLanguage(m.Param("language", "lang"))
	}
	out := codeFence(body, lang)
	if title := m.Param("title"); title != "" {
		out = "**" + title + "**\n\n" + out
	}
	return block(out)
}

// statusMacro renders a status lozenge as "`[TITLE]`".
func statusMacro(_ *Conversion, m *Macro) string {
	title := m.Param("title")
	if title == "" {
		title = m.Param("colour", "color")
	}
	if title == "" {
		return ""
	}
	return codeSpan("[" + title + "]")
}

// expandMacro renders the title in bold followed by the body, always expanded.
func expandMacro(c *Conversion, m *Macro) string {
	title := m.Param("title")
	if title == "" {
		title = "Details"
	}
	head := "**" + title + "**"
	body := c.MacroBody(m)

	switch {
	case c.st.inTableCell():
		return strings.TrimSpace(head+" "+body) + "\n"
	case body == "":
		return block(head)
	}
	return block(head + "\n\n" + body)
}

// anchorMacro emits an HTML anchor when anchors are preserved.
func anchorMacro(c *Conversion, m *Macro) string {
	if !c.opts.PreserveAnchors {
		return ""
	}
	name := m.Param("", "anchor", "name")
	if name == "" {
		c.Warn(WarningMissingAttribute, "anchor macro without name")
		return ""
	}
	return `<a id="` + Slugify(name) + `"></a>`
}

// excerptMacro renders its body in place unless the excerpt is hidden.
func excerptMacro(c *Conversion, m *Macro) string {
	if strings.EqualFold(m.Param("hidden"), "true") {
		return ""
	}
	body := c.MacroBody(m)
	if c.st.inTableCell() || strings.EqualFold(m.Param("atlassian-macro-output-type"), "INLINE") {
		return body
	}
	return block(body)
}

// includeMacro cannot pull the other page in; it links to it instead.
func includeMacro(c *Conversion, m *Macro) string {
	title := m.Param("", "page", "title")
	if title == "" {
		c.Warn(WarningMissingAttribute, m.Name+" macro without page")
		return ""
	}
	target := title
	for _, p := range m.Node.ChildrenNamed("ac:parameter") {
		if page := p.FindElement("ri:page"); page != nil {
			target = pageTarget(page.AttrValue("ri:space-key"), page.AttrValue("ri:content-title"))
			break
		}
	}
	link := markdownLink(escapeLinkText(title), c.resolve(target, "", TargetPage))
	return c.notice("Content included from " + link + ".")
}

// jiraMacro links a single issue, or notes that a JQL query was dropped.
func jiraMacro(c *Conversion, m *Macro) string {
	if key := m.Param("key"); key != "" {
		out := key
		server := strings.TrimRight(m.Param("server", "baseurl", "base-url"), "/")
		if strings.HasPrefix(server, "http://") || strings.HasPrefix(server, "https://") {
			target := server + "/browse/" + key
			out = markdownLink(key, c.resolve(target, target, TargetExternal))
		}
		if summary := m.Param("summary"); summary != "" {
			out += ": " + summary
		}
		return out
	}

	c.Warn(WarningDroppedFeature, "jira issues query")
	query := m.Param("jql", "jqlQuery")
	if query == "" {
		query = strings.TrimSpace(m.PlainBody)
	}
	if query == "" {
		return c.notice("Jira issues macro (dynamic content not exported).")
	}
	return c.notice("Jira issues macro (JQL: " + query + "). Dynamic content not exported.")
}
