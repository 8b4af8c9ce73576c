package progress

import (
	"math"
	"time"
)

// TaskID is an opaque handle identifying a tracked task within a Progress
// instance. Handles are assigned in increasing order and never reused, even
// after the task is removed.
type TaskID int64

// Sample records a single progress observation: the instant an update was
// applied and the net change in completed steps it produced.
type Sample struct {
	At    time.Time
	Delta float64
}

// Task holds the state of one tracked operation. Tasks are owned exclusively
// by the Progress registry that created them; callers interact through a
// TaskID and receive detached copies via Snapshot. All exported methods are
// read-only.
type Task struct {
	id        TaskID
	name      string
	total     float64
	completed float64
	visible   bool
	fields    map[string]any
	startTime time.Time
	stopTime  time.Time
	samples   []Sample
	window    time.Duration
}

// ID returns the task's handle.
func (t *Task) ID() TaskID { return t.id }

// Name returns the task's display name.
func (t *Task) Name() string { return t.name }

// Total returns the number of steps the task needs to be finished.
func (t *Task) Total() float64 { return t.total }

// Completed returns the number of steps completed so far.
func (t *Task) Completed() float64 { return t.completed }

// Visible reports whether the task should appear in rendered output.
func (t *Task) Visible() bool { return t.visible }

// Fields returns the task's user-supplied metadata. The returned map must
// not be modified.
func (t *Task) Fields() map[string]any { return t.fields }

// Field looks up a single metadata value by key.
func (t *Task) Field(key string) (any, bool) {
	v, ok := t.fields[key]
	return v, ok
}

// Started reports whether the task has a start timestamp.
func (t *Task) Started() bool { return !t.startTime.IsZero() }

// StartTime returns when the task was started, or false if it never was.
func (t *Task) StartTime() (time.Time, bool) {
	if t.startTime.IsZero() {
		return time.Time{}, false
	}
	return t.startTime, true
}

// StopTime returns when the task was stopped, or false if it never was.
func (t *Task) StopTime() (time.Time, bool) {
	if t.stopTime.IsZero() {
		return time.Time{}, false
	}
	return t.stopTime, true
}

// Remaining returns the number of steps left to complete.
func (t *Task) Remaining() float64 { return t.total - t.completed }

// Finished reports whether the task has reached its total. It is derived
// from completed and total at call time; there is no separate flag.
func (t *Task) Finished() bool { return t.completed >= t.total }

// Percentage returns progress as a value in [0, 100]. A zero total yields 0.
func (t *Task) Percentage() float64 {
	if t.total == 0 {
		return 0
	}
	pct := (t.completed / t.total) * 100
	return math.Min(100, math.Max(0, pct))
}

// Elapsed returns the time the task has been running: the span between start
// and stop once stopped, or the span since start while running. It returns
// false for a task that was never started.
func (t *Task) Elapsed() (time.Duration, bool) {
	if t.startTime.IsZero() {
		return 0, false
	}
	if !t.stopTime.IsZero() {
		return t.stopTime.Sub(t.startTime), true
	}
	return time.Since(t.startTime), true
}

// Speed estimates throughput in steps per second over the sample window.
// It returns false when no estimate exists: no samples have been recorded,
// or the recorded samples span no measurable time. A task that has samples
// but was never started reports a speed of 0. The first retained sample only
// anchors the window; its delta is excluded from the numerator.
func (t *Task) Speed() (float64, bool) {
	if len(t.samples) == 0 {
		return 0, false
	}
	if t.startTime.IsZero() {
		return 0, true
	}
	span := t.samples[len(t.samples)-1].At.Sub(t.samples[0].At)
	if span == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range t.samples[1:] {
		sum += s.Delta
	}
	return sum / span.Seconds(), true
}

// TimeRemaining estimates the time until the task finishes, rounded to whole
// seconds. A finished task reports 0. It returns false when the speed is
// unknown or zero.
func (t *Task) TimeRemaining() (time.Duration, bool) {
	if t.Finished() {
		return 0, true
	}
	speed, ok := t.Speed()
	if !ok || speed == 0 {
		return 0, false
	}
	secs := math.Round(t.Remaining() / speed)
	return time.Duration(secs) * time.Second, true
}

// recordSample evicts samples that have fallen out of the estimate window,
// then appends one sample for the current update. Eviction happens only
// here: an idle task keeps its stale samples until the next update.
func (t *Task) recordSample(now time.Time, delta float64) {
	cutoff := now.Add(-t.window)
	for len(t.samples) > 0 && t.samples[0].At.Before(cutoff) {
		t.samples = t.samples[1:]
	}
	t.samples = append(t.samples, Sample{At: now, Delta: delta})
}

// snapshot returns a detached copy of the task. The samples slice and fields
// map are copied so the caller cannot observe later mutations.
func (t *Task) snapshot() Task {
	cp := *t
	cp.samples = append([]Sample(nil), t.samples...)
	cp.fields = make(map[string]any, len(t.fields))
	for k, v := range t.fields {
		cp.fields[k] = v
	}
	return cp
}
