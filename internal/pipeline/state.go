package pipeline

// listKind is the marker family of an open list.
type listKind int

const (
	listUnordered listKind = iota
	listOrdered
	listTask
)

// inlineStyle identifies an inline marker pair.
type inlineStyle int

const (
	styleStrong inlineStyle = iota
	styleEmphasis
	styleStrike
	numStyles
)

// state is the nesting context of one conversion. Every push returns the
// matching pop, and callers defer it so the state seen by the next sibling
// is the one the parent saw.
type state struct {
	lists  []listKind
	styles [numStyles]int
	cells  int
	raw    int
}

// pushList opens a list frame.
func (s *state) pushList(kind listKind) func() {
	s.lists = append(s.lists, kind)
	depth := len(s.lists)
	return func() { s.lists = s.lists[:depth-1] }
}

// listDepth is the number of open lists.
func (s *state) listDepth() int {
	return len(s.lists)
}

// pushStyle marks an inline style active for a subtree.
func (s *state) pushStyle(st inlineStyle) func() {
	s.styles[st]++
	return func() { s.styles[st]-- }
}

// styleActive reports whether an ancestor already applied st.
func (s *state) styleActive(st inlineStyle) bool {
	return s.styles[st] > 0
}

// enterCell marks the subtree as table cell content.
func (s *state) enterCell() func() {
	s.cells++
	return func() { s.cells-- }
}

// inTableCell reports whether output must stay on one line.
func (s *state) inTableCell() bool {
	return s.cells > 0
}

// enterRaw disables whitespace collapsing (preformatted content).
func (s *state) enterRaw() func() {
	s.raw++
	return func() { s.raw-- }
}

func (s *state) inRaw() bool {
	return s.raw > 0
}

// balanced reports whether every push has been popped.
func (s *state) balanced() bool {
	if len(s.lists) != 0 || s.cells != 0 || s.raw != 0 {
		return false
	}
	for _, n := range s.styles {
		if n != 0 {
			return false
		}
	}
	return true
}
