package storage

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnbalanced is reported when the document ends with elements still open.
var ErrUnbalanced = errors.New("document ended with unclosed elements")

// ParseError describes why a document could not be parsed.
// Offset counts bytes in the payload after entity normalization, so it
// matches the input byte for byte only when no named entity was rewritten.
// It never points past the end of that payload. Path lists the elements open
// at the failure point, outermost first.
type ParseError struct {
	Offset int64
	Line   int
	Path   []string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d, offset %d", e.Line, e.Offset)
	if len(e.Path) > 0 {
		fmt.Fprintf(&b, ", inside %s", strings.Join(e.Path, " > "))
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load normalizes entities, wraps namespaces and parses content.
// The returned root is the synthetic wrapper element.
func Load(content string) (*Node, error) {
	normalized := NormalizeEntities(content)
	wrapped, shift := wrap(normalized)
	root, err := Parse(wrapped)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Offset = min(max(pe.Offset-int64(shift), 0), int64(len(normalized)))
		}
		return nil, err
	}
	return root, nil
}

// Parse builds a tree from a well-formed document using a strict decoder:
// no HTML auto-closing, no entity map beyond the XML predefined ones.
// Comments, processing instructions and directives are dropped.
func Parse(document string) (*Node, error) {
	d := xml.NewDecoder(strings.NewReader(document))
	d.Strict = true

	var root *Node
	var stack []*Node

	fail := func(err error) error {
		var syntax *xml.SyntaxError
		line := 0
		if errors.As(err, &syntax) {
			line = syntax.Line
			err = errors.New(syntax.Msg)
		}
		return &ParseError{
			Offset: d.InputOffset(),
			Line:   line,
			Path:   openPath(stack),
			Err:    err,
		}
	}

	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fail(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Kind: ElementNode,
				Name: qualify(t.Name),
				Attr: attributes(t.Attr),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fail(errors.New("multiple root elements"))
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			appendText(stack[len(stack)-1], string(t))
		}
	}

	if len(stack) > 0 {
		return nil, fail(ErrUnbalanced)
	}
	if root == nil {
		return nil, fail(errors.New("document has no root element"))
	}
	return root, nil
}

// appendText merges adjacent text runs (text followed by CDATA stays one node).
func appendText(parent *Node, text string) {
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Kind == TextNode {
		parent.Children[n-1].Text += text
		return
	}
	parent.Children = append(parent.Children, &Node{Kind: TextNode, Text: text})
}

// openPath lists open element names without the synthetic root.
func openPath(stack []*Node) []string {
	path := make([]string, 0, len(stack))
	for _, n := range stack {
		if n.Name == RootElement {
			continue
		}
		path = append(path, n.Name)
	}
	return path
}

func attributes(attrs []xml.Attr) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		m[qualify(a.Name)] = a.Value
	}
	return m
}

// qualify maps a decoded name back to its storage spelling.
// Synthetic namespaces become their prefix; foreign namespace URIs such as
// the XHTML one are dropped; undeclared prefixes are kept verbatim.
func qualify(name xml.Name) string {
	switch {
	case name.Space == "":
		return name.Local
	case strings.HasPrefix(name.Space, NamespaceBase):
		return strings.TrimPrefix(name.Space, NamespaceBase) + ":" + name.Local
	case strings.Contains(name.Space, "/"):
		return name.Local
	default:
		return name.Space + ":" + name.Local
	}
}
