package observability

import (
	"path/filepath"
	"testing"
	"time"
)

func newSummaryFixture(t *testing.T) (EventLog, time.Time) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []Event{
		{Time: base, Level: "INFO", Type: "session.started", Message: "started"},
		{Time: base.Add(time.Second), Level: "ERROR", Type: "refresh.failed", Message: "failed"},
		{Time: base.Add(2 * time.Second), Level: "ERROR", Type: "refresh.failed", Message: "failed again"},
		{Time: base.Add(3 * time.Second), Level: "INFO", Type: "session.stopped", Message: "stopped"},
		{Time: base.Add(4 * time.Second), Level: "INFO", Type: "session.started", Message: "started again"},
	}
	for _, e := range events {
		if err := log.Append(e); err != nil {
			t.Fatalf("appending event: %v", err)
		}
	}

	return log, base
}

func TestSummarizer_CountsByTypeAndLevel(t *testing.T) {
	log, base := newSummaryFixture(t)

	sum, err := NewSummarizer(log).Summarize(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("summarizing: %v", err)
	}

	if sum.EventCount != 5 {
		t.Errorf("event count = %d, want 5", sum.EventCount)
	}
	if sum.SessionsStarted != 2 {
		t.Errorf("sessions started = %d, want 2", sum.SessionsStarted)
	}
	if sum.SessionsStopped != 1 {
		t.Errorf("sessions stopped = %d, want 1", sum.SessionsStopped)
	}
	if sum.RefreshFailures != 2 {
		t.Errorf("refresh failures = %d, want 2", sum.RefreshFailures)
	}
	if sum.EventsByType["refresh.failed"] != 2 {
		t.Errorf("events by type refresh.failed = %d, want 2", sum.EventsByType["refresh.failed"])
	}
	if sum.EventsByLevel["INFO"] != 3 {
		t.Errorf("events by level INFO = %d, want 3", sum.EventsByLevel["INFO"])
	}
	if sum.EventsByLevel["ERROR"] != 2 {
		t.Errorf("events by level ERROR = %d, want 2", sum.EventsByLevel["ERROR"])
	}
}

func TestSummarizer_TracksOldestAndNewest(t *testing.T) {
	log, base := newSummaryFixture(t)

	sum, err := NewSummarizer(log).Summarize(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("summarizing: %v", err)
	}

	if sum.OldestEvent == nil || !sum.OldestEvent.Equal(base) {
		t.Errorf("oldest event = %v, want %v", sum.OldestEvent, base)
	}
	want := base.Add(4 * time.Second)
	if sum.NewestEvent == nil || !sum.NewestEvent.Equal(want) {
		t.Errorf("newest event = %v, want %v", sum.NewestEvent, want)
	}
}

func TestSummarizer_HonorsSince(t *testing.T) {
	log, base := newSummaryFixture(t)

	sum, err := NewSummarizer(log).Summarize(base.Add(3 * time.Second))
	if err != nil {
		t.Fatalf("summarizing: %v", err)
	}

	if sum.EventCount != 2 {
		t.Errorf("event count = %d, want 2", sum.EventCount)
	}
	if sum.RefreshFailures != 0 {
		t.Errorf("refresh failures = %d, want 0", sum.RefreshFailures)
	}
	if sum.SessionsStarted != 1 {
		t.Errorf("sessions started = %d, want 1", sum.SessionsStarted)
	}
}

func TestSummarizer_EmptyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	defer log.Close()

	sum, err := NewSummarizer(log).Summarize(time.Time{})
	if err != nil {
		t.Fatalf("summarizing empty log: %v", err)
	}

	if sum.EventCount != 0 {
		t.Errorf("event count = %d, want 0", sum.EventCount)
	}
	if sum.OldestEvent != nil || sum.NewestEvent != nil {
		t.Errorf("empty log should have no oldest/newest, got %v / %v", sum.OldestEvent, sum.NewestEvent)
	}
}
