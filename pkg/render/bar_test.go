package render

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBar_RendersAtFixedWidth(t *testing.T) {
	b := NewBar(10)
	for _, pct := range []float64{0, 33, 50, 100} {
		if w := lipgloss.Width(b.View(pct)); w != 10 {
			t.Errorf("width at %v%% = %d, want 10", pct, w)
		}
	}
}

func TestBar_ZeroWidthFallsBackToDefault(t *testing.T) {
	for _, width := range []int{0, -3} {
		b := NewBar(width)
		if w := lipgloss.Width(b.View(50)); w != DefaultBarWidth {
			t.Errorf("NewBar(%d) renders width %d, want %d", width, w, DefaultBarWidth)
		}
	}
}

func TestBar_ClampsPercentage(t *testing.T) {
	b := NewBar(12)

	if got, want := b.View(-10), b.View(0); got != want {
		t.Errorf("View(-10) = %q, want same as View(0) %q", got, want)
	}
	if got, want := b.View(250), b.View(100); got != want {
		t.Errorf("View(250) = %q, want same as View(100) %q", got, want)
	}
	if b.View(0) == b.View(100) {
		t.Error("empty and full bars render identically")
	}
}
