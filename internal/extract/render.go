package extract

import (
	"fmt"
	"strings"
)

// Compact trims paragraphs and cells, drops empty paragraphs and tables
// without any text, and pads every kept table to a rectangular grid.
func (c Content) Compact() Content {
	var out Content
	for _, p := range c.Paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			out.Paragraphs = append(out.Paragraphs, p)
		}
	}
	for _, t := range c.Tables {
		if grid, ok := compactTable(t); ok {
			out.Tables = append(out.Tables, grid)
		}
	}
	return out
}

func compactTable(t Table) (Table, bool) {
	width := 0
	for _, row := range t {
		width = max(width, len(row))
	}
	grid := make(Table, 0, len(t))
	hasText := false
	for _, row := range t {
		cells := make([]string, width)
		for i, cell := range row {
			cells[i] = strings.TrimSpace(cell)
			if cells[i] != "" {
				hasText = true
			}
		}
		grid = append(grid, cells)
	}
	return grid, hasText
}

// Render flattens content into the plain-text form handed to the model.
// Content is compacted first, so callers may pass raw parser output.
func Render(c Content) string {
	c = c.Compact()

	var b strings.Builder
	b.WriteString("Document Content:\n\n")

	if len(c.Paragraphs) > 0 {
		b.WriteString("Paragraphs:\n")
		for i, p := range c.Paragraphs {
			fmt.Fprintf(&b, "Paragraph %d: %s\n", i+1, p)
		}
		b.WriteString("\n")
	}

	if len(c.Tables) > 0 {
		b.WriteString("Tables:\n")
		for i, t := range c.Tables {
			fmt.Fprintf(&b, "Table %d:\n", i+1)
			for _, row := range t {
				b.WriteString("| ")
				b.WriteString(strings.Join(row, " | "))
				b.WriteString(" |\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
