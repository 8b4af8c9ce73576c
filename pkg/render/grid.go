package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Grid lays out rendered cell fragments in fixed columns. Cells in a row
// are left-aligned and padded to the widest cell of their column, with a
// single space between columns and no outer padding. Widths are measured
// ANSI-aware, so styled fragments align correctly.
type Grid struct {
	cols   int
	noWrap []bool
	rows   [][]string
}

// NewGrid creates a Grid with a fixed number of columns.
func NewGrid(cols int) *Grid {
	return &Grid{
		cols:   cols,
		noWrap: make([]bool, cols),
	}
}

// SetNoWrap marks a column as single-line: any newlines in its cells are
// flattened to spaces so text cannot spill into extra display lines.
func (g *Grid) SetNoWrap(col int) {
	if col >= 0 && col < g.cols {
		g.noWrap[col] = true
	}
}

// Row appends a row of cells. Missing cells render empty; extra cells are
// dropped.
func (g *Grid) Row(cells ...string) {
	row := make([]string, g.cols)
	for i := 0; i < g.cols && i < len(cells); i++ {
		cell := cells[i]
		if g.noWrap[i] {
			cell = strings.ReplaceAll(cell, "\n", " ")
		}
		row[i] = cell
	}
	g.rows = append(g.rows, row)
}

// Render produces the laid-out grid, one line per row. An empty grid
// renders as an empty string.
func (g *Grid) Render() string {
	if len(g.rows) == 0 {
		return ""
	}

	widths := make([]int, g.cols)
	for _, row := range g.rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for ri, row := range g.rows {
		if ri > 0 {
			b.WriteByte('\n')
		}
		for i, cell := range row {
			b.WriteString(cell)
			if i == g.cols-1 {
				continue
			}
			pad := widths[i] - lipgloss.Width(cell) + 1
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}
