package progress

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/valter-silva-au/pacer/pkg/render"
)

// Styles for the built-in columns.
var (
	percentageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	remainingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dataStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	speedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
)

// timeRemainingInterval limits how often the ETA column recomputes, to
// prevent jitter.
const timeRemainingInterval = 500 * time.Millisecond

// TemplateColumn renders a text/template over the task. Templates see the
// task's accessors, so {{.Name}}, {{.Percentage}}, {{.Completed}} and
// {{index .Fields "key"}} all work. Set Style to apply ANSI styling to the
// rendered text. Template columns are never throttled.
type TemplateColumn struct {
	Style lipgloss.Style
	tmpl  *template.Template
}

// NewTemplateColumn parses text into a TemplateColumn. The template is
// executed once against an empty task, so references to accessors that do
// not exist fail here rather than mid-render.
func NewTemplateColumn(text string) (*TemplateColumn, error) {
	tmpl, err := template.New("column").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing column template: %w", err)
	}
	probe := &Task{fields: map[string]any{}}
	if err := tmpl.Execute(&bytes.Buffer{}, probe); err != nil {
		return nil, fmt.Errorf("validating column template: %w", err)
	}
	return &TemplateColumn{tmpl: tmpl}, nil
}

// MustTemplateColumn is like NewTemplateColumn but panics on error. Use for
// literal templates known to be valid.
func MustTemplateColumn(text string) *TemplateColumn {
	col, err := NewTemplateColumn(text)
	if err != nil {
		panic(err)
	}
	return col
}

// Render executes the template for the task.
func (c *TemplateColumn) Render(task *Task) string {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, task); err != nil {
		return fmt.Sprintf("%%!(template: %v)", err)
	}
	return c.Style.Render(buf.String())
}

// BarColumn renders a progress bar filled to the task's percentage.
type BarColumn struct {
	bar render.Bar
}

// NewBarColumn creates a BarColumn. A width of zero or less uses the
// default bar width.
func NewBarColumn(width int) *BarColumn {
	return &BarColumn{bar: render.NewBar(width)}
}

// Render draws the bar for the task.
func (c *BarColumn) Render(task *Task) string {
	return c.bar.View(task.Percentage())
}

// PercentageColumn renders the task's percentage as a right-aligned whole
// number.
type PercentageColumn struct{}

// NewPercentageColumn creates a PercentageColumn.
func NewPercentageColumn() *PercentageColumn { return &PercentageColumn{} }

// Render formats the percentage.
func (c *PercentageColumn) Render(task *Task) string {
	return percentageStyle.Render(fmt.Sprintf("%3.0f%%", task.Percentage()))
}

// timeRemainingColumn renders the estimated time to completion.
type timeRemainingColumn struct{}

// NewTimeRemainingColumn creates the ETA column, throttled to recompute at
// most twice per second regardless of the refresh cadence.
func NewTimeRemainingColumn() Column {
	return Throttle(timeRemainingColumn{}, timeRemainingInterval)
}

// Render shows the time remaining, or "?" when no estimate exists.
func (timeRemainingColumn) Render(task *Task) string {
	remaining, ok := task.TimeRemaining()
	if !ok {
		return remainingStyle.Render("?")
	}
	return remainingStyle.Render(formatClock(remaining))
}

// FileSizeColumn renders the completed step count as a decimal byte size.
type FileSizeColumn struct{}

// NewFileSizeColumn creates a FileSizeColumn.
func NewFileSizeColumn() *FileSizeColumn { return &FileSizeColumn{} }

// Render shows the completed data size.
func (c *FileSizeColumn) Render(task *Task) string {
	completed := task.Completed()
	if completed < 0 {
		completed = 0
	}
	return dataStyle.Render(humanize.Bytes(uint64(completed)))
}

// TransferSpeedColumn renders the task's speed as decimal bytes per second.
type TransferSpeedColumn struct{}

// NewTransferSpeedColumn creates a TransferSpeedColumn.
func NewTransferSpeedColumn() *TransferSpeedColumn { return &TransferSpeedColumn{} }

// Render shows the transfer speed, or "?" when no estimate exists.
func (c *TransferSpeedColumn) Render(task *Task) string {
	speed, ok := task.Speed()
	if !ok {
		return speedStyle.Render("?")
	}
	if speed < 0 {
		speed = 0
	}
	return speedStyle.Render(humanize.Bytes(uint64(speed)) + "/s")
}

// formatClock formats a duration as H:MM:SS, hours unpadded.
func formatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
}

// DefaultColumns returns the column set used when none are configured:
// name, bar, percentage, time remaining. Fresh instances per call so each
// registry gets its own throttle cache.
func DefaultColumns(barWidth int) []Column {
	return []Column{
		MustTemplateColumn("{{.Name}}"),
		NewBarColumn(barWidth),
		NewPercentageColumn(),
		NewTimeRemainingColumn(),
	}
}
