package pipeline

import (
	"strconv"
	"strings"

	"github.com/alnah/go-storage2md/internal/storage"
)

// list renders ul/ol. Each item is a marker followed by its converted
// content; continuation lines are indented by the marker width and nested
// lists come out tight under their parent item.
func (c *Conversion) list(n *storage.Node, kind listKind) string {
	nested := c.st.listDepth() > 0
	pop := c.st.pushList(kind)
	defer pop()

	number := 1
	if kind == listOrdered {
		if start, err := strconv.Atoi(strings.TrimSpace(n.AttrValue("start"))); err == nil && start >= 0 {
			number = start
		}
	}

	var items []string
	for _, child := range n.Children {
		if child.Kind != storage.ElementNode {
			continue
		}
		if child.Name != "li" {
			// A list nested directly in a list belongs to the previous item.
			content := tidyItem(c.Render(child))
			if content == "" {
				continue
			}
			if len(items) == 0 {
				items = append(items, content)
				continue
			}
			last := len(items) - 1
			width := markerWidth(items[last])
			items[last] += "\n" + indentLines(content, width)
			continue
		}

		marker := "- "
		if kind == listOrdered {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		items = append(items, formatItem(marker, tidyItem(c.RenderChildren(child))))
	}

	return c.listBlock(strings.Join(items, "\n"), nested)
}

// listBlock places rendered items: tight when nested, one line per item
// inside table cells, surrounded by blank lines otherwise.
func (c *Conversion) listBlock(items string, nested bool) string {
	switch {
	case items == "":
		return ""
	case c.st.inTableCell():
		return items + "\n"
	case nested:
		return "\n" + items + "\n"
	}
	return block(items)
}

// formatItem puts marker in front of the first line and indents the rest.
func formatItem(marker, content string) string {
	if content == "" {
		return strings.TrimRight(marker, " ")
	}
	return marker + indentContinuation(content, len(marker))
}

// markerWidth returns the width of the list marker that starts item.
func markerWidth(item string) int {
	if m := listMarker.FindStringSubmatch(item); m != nil {
		return len(m[0])
	}
	return 2
}

// tidyItem trims an item body and removes blank lines in front of nested
// list lines so the item stays tight. Blank lines between paragraphs stay.
func tidyItem(content string) string {
	lines := strings.Split(trimBlock(content), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(strings.ReplaceAll(line, hardBreak, "")) == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 && !listMarker.MatchString(line) {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// taskList renders ac:task-list as a checklist. A task is checked when its
// ac:task-status is "complete".
func taskList(c *Conversion, n *storage.Node) string {
	nested := c.st.listDepth() > 0
	pop := c.st.pushList(listTask)
	defer pop()

	var items []string
	for _, task := range n.ChildrenNamed("ac:task") {
		marker := "- [ ] "
		if strings.EqualFold(strings.TrimSpace(task.Child("ac:task-status").TextContent()), "complete") {
			marker = "- [x] "
		}
		body := task.Child("ac:task-body")
		if body == nil {
			c.Warn(WarningMissingAttribute, "ac:task without ac:task-body")
		}
		items = append(items, formatItem(marker, tidyItem(c.RenderChildren(body))))
	}
	return c.listBlock(strings.Join(items, "\n"), nested)
}
