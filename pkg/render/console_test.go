package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

// ttyConsole builds a Console that believes it is attached to a terminal so
// repaint sequences can be asserted against a buffer.
func ttyConsole(buf *bytes.Buffer) *Console {
	return &Console{w: buf, out: termenv.NewOutput(buf), tty: true}
}

func TestConsole_NonTerminalAppendsPlainLines(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	if c.IsTerminal() {
		t.Fatal("buffer-backed console should not report a terminal")
	}

	if err := c.WriteFrame("one\ntwo"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := c.WriteFrame("three"); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	got := buf.String()
	if got != "one\ntwo\nthree\n" {
		t.Fatalf("output = %q, want plain appended lines", got)
	}
	if strings.Contains(got, termenv.CSI) {
		t.Fatalf("output %q contains escape sequences on a non-terminal", got)
	}
}

func TestConsole_RepaintsPreviousFrameInPlace(t *testing.T) {
	var buf bytes.Buffer
	c := ttyConsole(&buf)

	if err := c.WriteFrame("one\ntwo"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if buf.String() != "one\ntwo\n" {
		t.Fatalf("first frame = %q, want no erase before anything was painted", buf.String())
	}

	mark := buf.Len()
	if err := c.WriteFrame("three"); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	want := clearLinesSeq(2) + "three\n"
	if got := buf.String()[mark:]; got != want {
		t.Fatalf("second frame = %q, want %q", got, want)
	}
}

func TestConsole_EmptyFrameClearsWithoutPainting(t *testing.T) {
	var buf bytes.Buffer
	c := ttyConsole(&buf)

	if err := c.WriteFrame("busy"); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	mark := buf.Len()
	if err := c.WriteFrame(""); err != nil {
		t.Fatalf("write empty frame: %v", err)
	}
	if got := buf.String()[mark:]; got != clearLinesSeq(1) {
		t.Fatalf("empty frame wrote %q, want erase only", got)
	}
	if c.lastLines != 0 {
		t.Fatalf("lastLines = %d after empty frame, want 0", c.lastLines)
	}

	mark = buf.Len()
	if err := c.WriteFrame("fresh"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if got := buf.String()[mark:]; got != "fresh\n" {
		t.Fatalf("frame after clear = %q, want no erase prefix", got)
	}
}

func TestConsole_EmptyFrameOnNonTerminalWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	if err := c.WriteFrame(""); err != nil {
		t.Fatalf("write empty frame: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty frame wrote %q on a non-terminal", buf.String())
	}
}

func TestConsole_LineEndsTheLiveRegion(t *testing.T) {
	var buf bytes.Buffer
	c := ttyConsole(&buf)

	if err := c.WriteFrame("done"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := c.Line(); err != nil {
		t.Fatalf("line: %v", err)
	}

	mark := buf.Len()
	if err := c.WriteFrame("next"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if got := buf.String()[mark:]; got != "next\n" {
		t.Fatalf("frame after Line = %q, want no erase prefix", got)
	}
}

func TestConsole_TrailingNewlineNotDoubled(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	if err := c.WriteFrame("row\n"); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if buf.String() != "row\n" {
		t.Fatalf("output = %q, want single trailing newline", buf.String())
	}
	if c.lastLines != 1 {
		t.Fatalf("lastLines = %d, want 1", c.lastLines)
	}
}

func TestConsole_CursorControl(t *testing.T) {
	var buf bytes.Buffer
	c := ttyConsole(&buf)

	c.SetCursorVisible(false)
	if !strings.Contains(buf.String(), termenv.CSI+termenv.HideCursorSeq) {
		t.Fatalf("output %q missing hide-cursor sequence", buf.String())
	}

	buf.Reset()
	c.SetCursorVisible(true)
	if !strings.Contains(buf.String(), termenv.CSI+termenv.ShowCursorSeq) {
		t.Fatalf("output %q missing show-cursor sequence", buf.String())
	}
}

func TestConsole_CursorControlIsNoOpOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	c.SetCursorVisible(false)
	c.SetCursorVisible(true)
	if buf.Len() != 0 {
		t.Fatalf("cursor control wrote %q on a non-terminal", buf.String())
	}
}
