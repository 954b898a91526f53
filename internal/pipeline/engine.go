package pipeline

import (
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// elementHandler renders one standard element.
type elementHandler func(c *Conversion, n *storage.Node) string

// Engine holds the immutable handler tables. It is safe for concurrent use;
// every Convert call gets its own Conversion.
type Engine struct {
	macros   map[string]MacroHandler
	elements map[string]elementHandler
}

// NewEngine creates an engine with the built-in handlers. Entries in extra
// are added to the macro registry and replace built-ins with the same name.
func NewEngine(extra map[string]MacroHandler) *Engine {
	e := &Engine{
		macros:   builtinMacros(),
		elements: builtinElements(),
	}
	for name, h := range extra {
		e.macros[strings.ToLower(name)] = h
	}
	return e
}

// HasMacro reports whether name has a registered handler.
func (e *Engine) HasMacro(name string) bool {
	_, ok := e.macros[strings.ToLower(name)]
	return ok
}

// Convert renders a parsed document. It never fails: unsupported constructs
// degrade to preserved text and are listed in Output.Warnings.
func (e *Engine) Convert(root *storage.Node, opts Options) *Output {
	c := &Conversion{
		engine: e,
		opts:   opts,
		slugs:  newSlugRegistry(),
		assets: newAssetCollector(),
	}

	body := c.RenderChildren(root)
	body = c.resolveTOCs(body)

	return &Output{
		Markdown: PostProcess(body),
		Assets:   c.assets.list,
		Headings: c.headings,
		Warnings: c.warnings,
	}
}

// Conversion is the context of one Convert call: options, nesting state,
// collected assets, headings and warnings.
type Conversion struct {
	engine   *Engine
	opts     Options
	st       state
	slugs    *slugRegistry
	assets   *assetCollector
	headings []Heading
	warnings []Warning
	tocs     []tocRequest
}

// Options returns the options of this conversion.
func (c *Conversion) Options() Options {
	return c.opts
}

// InTableCell reports whether the current subtree is rendered inside a table cell.
func (c *Conversion) InTableCell() bool {
	return c.st.inTableCell()
}

// Render converts one node. Macros resolve through the registry first,
// then elements through the element table; anything else keeps its
// children and drops its own tag.
func (c *Conversion) Render(n *storage.Node) string {
	if n == nil {
		return ""
	}
	if n.Kind == storage.TextNode {
		return c.text(n.Text)
	}

	if isMacro(n) {
		return c.renderMacro(n)
	}
	if h, ok := c.engine.elements[n.Name]; ok {
		return h(c, n)
	}
	if strings.Contains(n.Name, ":") {
		c.Warn(WarningUnknownElement, n.Name)
	}
	return c.RenderChildren(n)
}

// RenderChildren converts and concatenates the children of n.
func (c *Conversion) RenderChildren(n *storage.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(c.Render(child))
	}
	return b.String()
}

// RenderInline converts the children of n and folds the result onto one line.
func (c *Conversion) RenderInline(n *storage.Node) string {
	return singleLine(c.RenderChildren(n))
}

// Warn records a degradation.
func (c *Conversion) Warn(kind WarningType, detail string) {
	c.warnings = append(c.warnings, Warning{Type: kind, Detail: detail})
}

// resolve applies the link policy. fallback is used when no policy is set.
func (c *Conversion) resolve(target, fallback string, kind TargetKind) string {
	if c.opts.LinkPolicy == nil {
		return fallback
	}
	resolved := c.opts.LinkPolicy(target, kind)
	if resolved == "" {
		c.Warn(WarningUnresolvedReference, kind.String()+": "+target)
	}
	return resolved
}

// text renders a text run, collapsing whitespace outside preformatted content.
func (c *Conversion) text(s string) string {
	if c.st.inRaw() {
		return s
	}
	return collapseWhitespace(s)
}
