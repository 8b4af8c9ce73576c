package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/pacer/internal/observability"
)

type summarizerMock struct {
	fn func(since time.Time) (*observability.Summary, error)
}

func (m *summarizerMock) Summarize(since time.Time) (*observability.Summary, error) {
	return m.fn(since)
}

func withSummarizer(t *testing.T, s observability.Summarizer) {
	t.Helper()
	orig := Summarizer
	origJSON := eventsJSON
	origSince := eventsSince
	t.Cleanup(func() {
		Summarizer = orig
		eventsJSON = origJSON
		eventsSince = origSince
	})
	Summarizer = s
}

func TestEventsCommand_NoSummarizer(t *testing.T) {
	withSummarizer(t, nil)

	err := eventsCmd.RunE(eventsCmd, []string{})
	if err == nil {
		t.Fatal("expected error when summarizer is not initialized")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEventsCommand_TableOutput(t *testing.T) {
	var gotSince time.Time
	withSummarizer(t, &summarizerMock{
		fn: func(since time.Time) (*observability.Summary, error) {
			gotSince = since
			return &observability.Summary{
				SessionsStarted: 2,
				SessionsStopped: 2,
				EventCount:      10,
				EventsByType:    map[string]int{"session.started": 2},
				EventsByLevel:   map[string]int{"INFO": 10},
			}, nil
		},
	})
	eventsJSON = false
	eventsSince = "7d"

	if err := eventsCmd.RunE(eventsCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// --since 7d should resolve to roughly a week ago.
	want := time.Now().AddDate(0, 0, -7)
	if diff := gotSince.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("since = %v, want about %v", gotSince, want)
	}
}

func TestEventsCommand_JSONOutput(t *testing.T) {
	withSummarizer(t, &summarizerMock{
		fn: func(since time.Time) (*observability.Summary, error) {
			return &observability.Summary{EventCount: 3}, nil
		},
	})
	eventsJSON = true
	eventsSince = "24h"

	if err := eventsCmd.RunE(eventsCmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEventsCommand_SummarizeError(t *testing.T) {
	withSummarizer(t, &summarizerMock{
		fn: func(since time.Time) (*observability.Summary, error) {
			return nil, errors.New("event log unreadable")
		},
	})
	eventsJSON = false
	eventsSince = "7d"

	err := eventsCmd.RunE(eventsCmd, []string{})
	if err == nil {
		t.Fatal("expected error from summarizer")
	}
	if !strings.Contains(err.Error(), "summarizing events") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEventsCommand_InvalidSince(t *testing.T) {
	withSummarizer(t, &summarizerMock{
		fn: func(since time.Time) (*observability.Summary, error) {
			t.Fatal("Summarize should not be called for an invalid --since")
			return nil, nil
		},
	})
	eventsSince = "soon"

	err := eventsCmd.RunE(eventsCmd, []string{})
	if err == nil {
		t.Fatal("expected error for invalid --since value")
	}
	if !strings.Contains(err.Error(), "parsing --since") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseSinceDuration(t *testing.T) {
	tests := []struct {
		input    string
		wantBack time.Duration
		wantErr  bool
	}{
		{"", 7 * 24 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"30d", 30 * 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"1h", time.Hour, false},
		{"xd", 0, true},
		{"h", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSinceDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseSinceDuration(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSinceDuration(%q): %v", tt.input, err)
			}
			want := time.Now().Add(-tt.wantBack)
			if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
				t.Errorf("parseSinceDuration(%q) = %v, want about %v", tt.input, got, want)
			}
		})
	}
}
