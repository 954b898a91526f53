package storage

import "strings"

// NodeKind distinguishes element nodes from text runs.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

// Node is one element or text run of a parsed document.
// Element names and attribute keys keep their storage prefix ("ac:link", "ri:filename").
// Trees are built once by Parse and never modified afterwards.
type Node struct {
	Kind     NodeKind
	Name     string
	Attr     map[string]string
	Children []*Node
	Text     string
}

// IsElement reports whether n is an element with the given qualified name.
func (n *Node) IsElement(name string) bool {
	return n != nil && n.Kind == ElementNode && n.Name == name
}

// AttrValue returns the attribute value or "" when absent.
func (n *Node) AttrValue(name string) string {
	if n == nil || n.Attr == nil {
		return ""
	}
	return n.Attr[name]
}

// Child returns the first element child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.IsElement(name) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns all element children with the given name in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement(name) {
			out = append(out, c)
		}
	}
	return out
}

// FirstElement returns the first element child whose name has the given prefix.
func (n *Node) FirstElement(prefix string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == ElementNode && strings.HasPrefix(c.Name, prefix) {
			return c
		}
	}
	return nil
}

// FindElement returns the first descendant element, depth first, whose name
// has the given prefix.
func (n *Node) FindElement(prefix string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind != ElementNode {
			continue
		}
		if strings.HasPrefix(c.Name, prefix) {
			return c
		}
		if found := c.FindElement(prefix); found != nil {
			return found
		}
	}
	return nil
}

// TextContent concatenates all descendant text runs.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Kind == TextNode {
		return n.Text
	}
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	for _, c := range n.Children {
		if c.Kind == TextNode {
			b.WriteString(c.Text)
			continue
		}
		c.appendText(b)
	}
}
