package render

import (
	bar "github.com/charmbracelet/bubbles/progress"
)

// DefaultBarWidth is the bar width used when none is configured.
const DefaultBarWidth = 40

// Bar renders a horizontal progress bar at a fixed width.
type Bar struct {
	model bar.Model
}

// NewBar creates a Bar of the given width in cells. A width of zero or less
// falls back to DefaultBarWidth.
func NewBar(width int) Bar {
	if width <= 0 {
		width = DefaultBarWidth
	}
	m := bar.New(
		bar.WithSolidFill("205"),
		bar.WithoutPercentage(),
	)
	m.Width = width
	m.EmptyColor = "237"
	return Bar{model: m}
}

// View renders the bar filled to the given percentage in [0, 100].
func (b Bar) View(percentage float64) string {
	if percentage < 0 {
		percentage = 0
	} else if percentage > 100 {
		percentage = 100
	}
	return b.model.ViewAs(percentage / 100)
}
