package pipeline

import (
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// decision is one recorded decision, from a macro or an ADF decision item.
type decision struct {
	title   string
	status  string
	owner   string
	date    string
	dueDate string
	outcome string
	body    string
}

func (d decision) empty() bool {
	return strings.TrimSpace(d.title) == "" && strings.TrimSpace(d.body) == ""
}

// header renders "**Decision:** title (Status: x; Owner: y)".
func (d decision) header() string {
	title := d.title
	if title == "" {
		title = "Untitled decision"
	}
	head := "**Decision:** " + title

	var meta []string
	for _, field := range []struct{ label, value string }{
		{"Status", d.status},
		{"Owner", d.owner},
		{"Date", d.date},
		{"Due date", d.dueDate},
		{"Outcome", d.outcome},
	} {
		if field.value != "" {
			meta = append(meta, field.label+": "+field.value)
		}
	}
	if len(meta) > 0 {
		head += " (" + strings.Join(meta, "; ") + ")"
	}
	return head
}

// content is the header followed by the body as its own paragraph.
func (d decision) content() string {
	if d.body == "" {
		return d.header()
	}
	return d.header() + "\n\n" + d.body
}

// decisionMacro renders one decision with its metadata and body.
func decisionMacro(c *Conversion, m *Macro) string {
	d := c.parseDecision(m)
	if c.st.inTableCell() {
		return strings.TrimSpace(d.header()+" "+d.body) + "\n"
	}
	return block(d.content())
}

// decisionListMacro renders the decisions found in its body as a list.
// A body without decisions is rendered as is.
func decisionListMacro(c *Conversion, m *Macro) string {
	if m.Body == nil {
		if text := strings.TrimSpace(m.PlainBody); text != "" {
			return block(text)
		}
		return ""
	}

	nodes := findDecisions(m.Body, nil)
	if len(nodes) == 0 {
		return bodyMacro(c, m)
	}
	decisions := make([]decision, 0, len(nodes))
	for _, n := range nodes {
		decisions = append(decisions, c.parseDecision(parseMacro(n)))
	}
	return c.decisionList(decisions)
}

// decisionReportMacro keeps the CQL query of a decision report.
func decisionReportMacro(c *Conversion, m *Macro) string {
	c.Warn(WarningDroppedFeature, m.Name)
	if query := m.Param("cql"); query != "" {
		return c.notice("Decision report macro (CQL: " + query + "). Dynamic content not exported.")
	}
	return c.notice("Decision report macro (dynamic content not exported).")
}

// decisionList renders decisions as list items. Empty decisions are skipped.
func (c *Conversion) decisionList(decisions []decision) string {
	nested := c.st.listDepth() > 0
	var items []string
	for _, d := range decisions {
		if d.empty() {
			continue
		}
		items = append(items, formatItem("- ", d.content()))
	}
	return c.listBlock(strings.Join(items, "\n"), nested)
}

func (c *Conversion) parseDecision(m *Macro) decision {
	return decision{
		title:   decisionParam(m, "title"),
		status:  decisionParam(m, "status"),
		owner:   decisionParam(m, "owner"),
		date:    decisionParam(m, "date"),
		dueDate: decisionParam(m, "due-date", "dueDate"),
		outcome: decisionParam(m, "outcome"),
		body:    c.MacroBody(m),
	}
}

// decisionParam returns the first non-empty parameter among names. A
// parameter holding only a user reference becomes an "@" mention.
func decisionParam(m *Macro, names ...string) string {
	for _, name := range names {
		for _, p := range m.Node.ChildrenNamed("ac:parameter") {
			if p.AttrValue("ac:name") != name || strings.TrimSpace(p.TextContent()) != "" {
				continue
			}
			if user := p.FindElement("ri:user"); user != nil {
				if id := userID(user); id != "" {
					return "@" + id
				}
			}
		}
		if v := singleLine(m.Param(name)); v != "" {
			return v
		}
	}
	return ""
}

// findDecisions collects decision macros below n in document order,
// without descending into a decision once found.
func findDecisions(n *storage.Node, found []*storage.Node) []*storage.Node {
	for _, child := range n.Children {
		if child.Kind != storage.ElementNode {
			continue
		}
		if isMacro(child) && strings.EqualFold(strings.TrimSpace(child.AttrValue("ac:name")), "decision") {
			found = append(found, child)
			continue
		}
		found = findDecisions(child, found)
	}
	return found
}

// adfDecisionList renders an ADF decision-list node from its decision-item
// children. It returns "" when no item carries a title or a body.
func (c *Conversion) adfDecisionList(n *storage.Node) string {
	var decisions []decision
	for _, item := range n.ChildrenNamed("ac:adf-node") {
		if item.AttrValue("type") != "decision-item" {
			continue
		}
		if d := parseADFDecision(item); !d.empty() {
			decisions = append(decisions, d)
		}
	}
	if len(decisions) == 0 {
		return ""
	}
	return c.decisionList(decisions)
}

func parseADFDecision(item *storage.Node) decision {
	attrs := make(map[string]string)
	for _, attr := range item.ChildrenNamed("ac:adf-attribute") {
		if v := singleLine(attr.TextContent()); v != "" {
			attrs[strings.ToLower(attr.AttrValue("key"))] = v
		}
	}
	lookup := func(keys ...string) string {
		for _, key := range keys {
			if v := attrs[strings.ToLower(key)]; v != "" {
				return v
			}
		}
		return ""
	}

	d := decision{
		title:   lookup("title", "text", "value"),
		status:  lookup("state", "status"),
		owner:   lookup("owner", "owner-id", "assignee", "assignee-id", "decider"),
		date:    lookup("date", "decision-date", "created-date"),
		dueDate: lookup("due-date", "dueDate"),
		outcome: lookup("outcome", "result"),
	}

	paragraphs := adfParagraphs(item, nil)
	if d.title == "" && len(paragraphs) > 0 {
		d.title, paragraphs = paragraphs[0], paragraphs[1:]
	}
	d.body = strings.Join(paragraphs, "\n\n")
	return d
}

// adfParagraphs collects the text of ADF content and paragraph-like nodes
// below n. Attributes are metadata and contribute no text.
func adfParagraphs(n *storage.Node, out []string) []string {
	for _, child := range n.Children {
		if child.Kind != storage.ElementNode || child.Name == "ac:adf-attribute" {
			continue
		}
		switch {
		case child.Name == "ac:adf-content", child.Name == "ac:adf-fallback":
			if text := plainText(child); text != "" {
				out = append(out, text)
			}
		case child.Name == "ac:adf-node" && isADFParagraph(child.AttrValue("type")):
			if text := adfInlineText(child); text != "" {
				out = append(out, text)
			}
		default:
			out = adfParagraphs(child, out)
		}
	}
	return out
}

func isADFParagraph(kind string) bool {
	switch kind {
	case "paragraph", "heading", "blockquote", "listItem":
		return true
	}
	return false
}

// adfInlineText joins the text runs of n, reading text-like attributes and
// keeping ADF hard breaks as line breaks.
func adfInlineText(n *storage.Node) string {
	var lines []string
	var line strings.Builder
	flush := func() {
		if text := strings.TrimSpace(collapseWhitespace(line.String())); text != "" {
			lines = append(lines, text)
		}
		line.Reset()
	}

	var walk func(*storage.Node)
	walk = func(n *storage.Node) {
		for _, child := range n.Children {
			switch {
			case child.Kind == storage.TextNode:
				line.WriteString(" " + child.Text)
			case child.Name == "ac:adf-attribute":
				switch strings.ToLower(child.AttrValue("key")) {
				case "text", "title", "emoji-fallback", "emoji-shortname":
					line.WriteString(" " + child.TextContent())
				}
			case child.AttrValue("type") == "hardBreak":
				flush()
			default:
				walk(child)
			}
		}
	}
	walk(n)
	flush()
	return strings.Join(lines, hardBreak+"\n")
}
