// Package render adapts a terminal for live progress display: an in-place
// repainting console, a fixed-column grid for laying out rendered cells, and
// a progress bar widget. It is the display half of the engine; pkg/progress
// produces cell fragments and hands assembled frames to a Console.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Console writes frames to a terminal, repainting in place so successive
// frames overwrite each other. On a non-terminal writer it degrades to
// appending plain lines and skips all cursor control.
type Console struct {
	mu        sync.Mutex
	w         io.Writer
	out       *termenv.Output
	tty       bool
	lastLines int
}

// NewConsole creates a Console writing to w. Terminal capabilities are
// detected from w when it is an *os.File.
func NewConsole(w io.Writer) *Console {
	c := &Console{
		w:   w,
		out: termenv.NewOutput(w),
	}
	if f, ok := w.(*os.File); ok {
		c.tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return c
}

// IsTerminal reports whether the console is attached to a terminal.
func (c *Console) IsTerminal() bool { return c.tty }

// WriteFrame displays a frame, replacing the previously written one. The
// frame may span multiple lines. A single write carries both the erase
// sequences and the new content, so a frame is never visibly half-painted.
func (c *Console) WriteFrame(frame string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lines []string
	if frame != "" {
		lines = strings.Split(strings.TrimSuffix(frame, "\n"), "\n")
	}

	var b strings.Builder
	if c.tty && c.lastLines > 0 {
		b.WriteString(clearLinesSeq(c.lastLines))
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if b.Len() > 0 {
		if _, err := io.WriteString(c.w, b.String()); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}
	c.lastLines = len(lines)
	return nil
}

// Line emits a newline, ending the live region. The next frame starts fresh
// below it instead of overwriting.
func (c *Console) Line() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := io.WriteString(c.w, "\n"); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	c.lastLines = 0
	return nil
}

// SetCursorVisible shows or hides the terminal cursor. It is a no-op on a
// non-terminal writer.
func (c *Console) SetCursorVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tty {
		return
	}
	if visible {
		c.out.ShowCursor()
	} else {
		c.out.HideCursor()
	}
}

// clearLinesSeq returns the escape sequence that erases the previous n lines
// and leaves the cursor at the start of the topmost erased line. The cursor
// sits on the line below the frame after a write, so the current (empty)
// line is erased first, then each frame line on the way up.
func clearLinesSeq(n int) string {
	eraseLine := fmt.Sprintf(termenv.CSI+termenv.EraseLineSeq, 2)
	cursorUp := fmt.Sprintf(termenv.CSI+termenv.CursorUpSeq, 1)
	return eraseLine + strings.Repeat(cursorUp+eraseLine, n)
}
