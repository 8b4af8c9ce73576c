package observability

import (
	"fmt"
	"time"
)

// Summary holds aggregate counts derived from the event log.
type Summary struct {
	SessionsStarted int            `json:"sessions_started"`
	SessionsStopped int            `json:"sessions_stopped"`
	RefreshFailures int            `json:"refresh_failures"`
	EventsByType    map[string]int `json:"events_by_type"`
	EventsByLevel   map[string]int `json:"events_by_level"`
	EventCount      int            `json:"event_count"`
	OldestEvent     *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent     *time.Time     `json:"newest_event,omitempty"`
}

// Summarizer derives summaries from the event log.
type Summarizer interface {
	Summarize(since time.Time) (*Summary, error)
}

// logSummarizer implements Summarizer by reading from an EventLog.
type logSummarizer struct {
	eventLog EventLog
}

// NewSummarizer creates a new Summarizer that reads from the given EventLog.
func NewSummarizer(eventLog EventLog) Summarizer {
	return &logSummarizer{eventLog: eventLog}
}

// Summarize reads all events since the given time and aggregates them into a
// summary.
func (s *logSummarizer) Summarize(since time.Time) (*Summary, error) {
	events, err := s.eventLog.Query(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for summary: %w", err)
	}

	sum := &Summary{
		EventsByType:  make(map[string]int),
		EventsByLevel: make(map[string]int),
	}
	sum.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			sum.OldestEvent = &t
		}
		t := event.Time
		sum.NewestEvent = &t

		sum.EventsByType[event.Type]++
		sum.EventsByLevel[event.Level]++

		switch event.Type {
		case "session.started":
			sum.SessionsStarted++
		case "session.stopped":
			sum.SessionsStopped++
		case "refresh.failed":
			sum.RefreshFailures++
		}
	}

	return sum, nil
}
