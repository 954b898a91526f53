package pipeline

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/alnah/go-storage2md/internal/storage"
)

const (
	// minSeparatorWidth keeps separator cells at least "---".
	minSeparatorWidth = 3
	maxColspan        = 64
)

// table renders a table. The first row is the header row.
func table(c *Conversion, n *storage.Node) string {
	rows := c.tableRows(n)
	if len(rows) == 0 {
		return ""
	}

	if c.st.inTableCell() {
		// A table inside a cell cannot keep its grid; one line per row.
		var b strings.Builder
		for _, row := range rows {
			b.WriteString(strings.Join(nonEmpty(row), ", "))
			b.WriteByte('\n')
		}
		return b.String()
	}
	return block(RenderTable(rows, c.opts.CompactTables))
}

// tableRows converts every row of n into flattened cell strings.
// Cells spanning several columns are followed by empty cells.
func (c *Conversion) tableRows(n *storage.Node) [][]string {
	var rows [][]string
	for _, tr := range collectRows(n) {
		var row []string
		for _, cell := range tr.Children {
			if !cell.IsElement("td") && !cell.IsElement("th") {
				continue
			}
			row = append(row, c.cell(cell))
			if span, err := strconv.Atoi(cell.AttrValue("colspan")); err == nil {
				for i := 1; i < min(span, maxColspan); i++ {
					row = append(row, "")
				}
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// cell converts the content of one td/th onto a single line.
func (c *Conversion) cell(n *storage.Node) string {
	pop := c.st.enterCell()
	defer pop()
	return flattenCell(c.RenderChildren(n))
}

// collectRows gathers tr elements from the table and its row groups in order.
func collectRows(n *storage.Node) []*storage.Node {
	var rows []*storage.Node
	for _, child := range n.Children {
		switch {
		case child.IsElement("tr"):
			rows = append(rows, child)
		case child.IsElement("thead"), child.IsElement("tbody"), child.IsElement("tfoot"):
			rows = append(rows, child.ChildrenNamed("tr")...)
		}
	}
	return rows
}

// RenderTable renders rows as a pipe table in two passes. Pass one pads
// short rows with empty cells and measures column widths; pass two writes
// the header, separator and body. Compact mode skips width padding.
func RenderTable(rows [][]string, compact bool) string {
	if len(rows) == 0 {
		return ""
	}

	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	padded := make([][]string, len(rows))
	for i, row := range rows {
		padded[i] = make([]string, columns)
		copy(padded[i], row)
	}

	widths := make([]int, columns)
	for col := range widths {
		widths[col] = minSeparatorWidth
		for _, row := range padded {
			widths[col] = max(widths[col], runewidth.StringWidth(row[col]))
		}
	}

	var b strings.Builder
	writeRow(&b, padded[0], widths, compact)
	writeSeparator(&b, widths, compact)
	for _, row := range padded[1:] {
		writeRow(&b, row, widths, compact)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func writeRow(b *strings.Builder, row []string, widths []int, compact bool) {
	b.WriteString("|")
	for col, cell := range row {
		b.WriteString(" ")
		b.WriteString(cell)
		if !compact {
			b.WriteString(strings.Repeat(" ", widths[col]-runewidth.StringWidth(cell)))
		}
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int, compact bool) {
	b.WriteString("|")
	for _, w := range widths {
		if compact {
			w = minSeparatorWidth
		}
		b.WriteString(" ")
		b.WriteString(strings.Repeat("-", w))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func nonEmpty(cells []string) []string {
	out := cells[:0:0]
	for _, cell := range cells {
		if cell != "" {
			out = append(out, cell)
		}
	}
	return out
}
