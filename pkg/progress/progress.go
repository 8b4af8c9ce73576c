package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/valter-silva-au/pacer/pkg/render"
)

// Sink is the output surface a Progress renders to. Defining it here keeps
// the engine independent of the render package's concrete console; anything
// that can display a frame, end the live region, and toggle the cursor can
// serve as a sink.
type Sink interface {
	WriteFrame(frame string) error
	Line() error
	SetCursorVisible(visible bool)
}

// EventLogger is the subset of an event log the engine needs to report
// lifecycle events and background refresh failures.
type EventLogger interface {
	LogEvent(level, eventType, message string, data map[string]any) error
}

// Progress is a registry of tracked tasks and the engine that renders them.
// Create one with New, add tasks, and drive updates from any goroutine; a
// single mutex serializes all mutation and rendering. Wrap the active
// display period in Start/Stop (or Run) to get cursor handling and, when
// auto refresh is enabled, a background worker repainting at a fixed
// cadence.
type Progress struct {
	// Configuration, immutable after New.
	columns          []Column
	sink             Sink
	autoRefresh      bool
	refreshPerSecond float64
	window           time.Duration
	events           EventLogger

	mu           sync.Mutex
	tasks        map[TaskID]*Task
	order        []TaskID
	nextID       TaskID
	refreshCount int64
	worker       *worker
	started      bool
}

// Option configures a Progress.
type Option func(*Progress)

// WithColumns replaces the default column set. Panics if any column is nil;
// a broken column pipeline is a programming error, not a runtime condition.
func WithColumns(columns ...Column) Option {
	for _, c := range columns {
		if c == nil {
			panic("progress: WithColumns called with nil column")
		}
	}
	return func(p *Progress) {
		p.columns = columns
	}
}

// WithSink sets the output sink. The default writes to stderr.
func WithSink(sink Sink) Option {
	if sink == nil {
		panic("progress: WithSink called with nil sink")
	}
	return func(p *Progress) {
		p.sink = sink
	}
}

// WithAutoRefresh enables or disables the background refresh worker. With
// auto refresh off, callers must invoke Refresh themselves.
func WithAutoRefresh(enabled bool) Option {
	return func(p *Progress) {
		p.autoRefresh = enabled
	}
}

// WithRefreshPerSecond sets the background refresh cadence.
func WithRefreshPerSecond(rate float64) Option {
	return func(p *Progress) {
		p.refreshPerSecond = rate
	}
}

// WithSpeedEstimatePeriod sets the width of the sliding window used for
// speed estimation.
func WithSpeedEstimatePeriod(period time.Duration) Option {
	return func(p *Progress) {
		p.window = period
	}
}

// WithEventLogger attaches an event log for lifecycle events and refresh
// failures reported by the background worker.
func WithEventLogger(events EventLogger) Option {
	return func(p *Progress) {
		p.events = events
	}
}

// Default configuration values.
const (
	DefaultRefreshPerSecond    = 15
	DefaultSpeedEstimatePeriod = 30 * time.Second
)

// New creates a Progress with the given options. Without options it renders
// name, bar, percentage, and time-remaining columns to a stderr console,
// auto-refreshing fifteen times per second with a thirty-second speed
// estimate window.
func New(opts ...Option) *Progress {
	p := &Progress{
		autoRefresh:      true,
		refreshPerSecond: DefaultRefreshPerSecond,
		window:           DefaultSpeedEstimatePeriod,
		tasks:            make(map[TaskID]*Task),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.columns == nil {
		p.columns = DefaultColumns(render.DefaultBarWidth)
	}
	if p.sink == nil {
		p.sink = render.NewConsole(os.Stderr)
	}
	return p
}

// taskOptions collects AddTask settings.
type taskOptions struct {
	total     float64
	start     bool
	completed float64
	visible   bool
	fields    map[string]any
}

// TaskOption configures a task at creation time.
type TaskOption func(*taskOptions)

// WithTotal sets the number of steps the task needs to finish. Defaults
// to 100.
func WithTotal(total float64) TaskOption {
	return func(o *taskOptions) { o.total = total }
}

// WithStart controls whether the task starts immediately. Defaults to true;
// pass false for tasks whose elapsed clock should begin later, then call
// StartTask.
func WithStart(start bool) TaskOption {
	return func(o *taskOptions) { o.start = start }
}

// WithCompleted sets the initial completed step count.
func WithCompleted(completed float64) TaskOption {
	return func(o *taskOptions) { o.completed = completed }
}

// WithVisible controls whether the task appears in rendered output.
// Defaults to true.
func WithVisible(visible bool) TaskOption {
	return func(o *taskOptions) { o.visible = visible }
}

// WithFields attaches user metadata for columns to render.
func WithFields(fields map[string]any) TaskOption {
	return func(o *taskOptions) {
		if o.fields == nil {
			o.fields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			o.fields[k] = v
		}
	}
}

// AddTask registers a new task and returns its handle. Handles are assigned
// in increasing order and never reused. The task starts immediately unless
// WithStart(false) is given, and a refresh is triggered so it appears right
// away.
func (p *Progress) AddTask(name string, opts ...TaskOption) TaskID {
	o := taskOptions{total: 100, start: true, visible: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fields == nil {
		o.fields = make(map[string]any)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++

	task := &Task{
		id:        id,
		name:      name,
		total:     o.total,
		completed: o.completed,
		visible:   o.visible,
		fields:    o.fields,
		window:    p.window,
	}
	p.tasks[id] = task
	p.order = append(p.order, id)

	if o.start {
		task.startTime = time.Now()
	}
	if err := p.refreshLocked(); err != nil {
		p.logEvent("ERROR", "refresh.failed", err.Error(), map[string]any{"task_id": int64(id)})
	}
	return id
}

// StartTask sets the task's start timestamp to now. Calling it on a running
// task restarts the elapsed clock; callers must not expect idempotence.
func (p *Progress) StartTask(id TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[id]
	if !ok {
		return fmt.Errorf("starting task %d: %w", id, ErrTaskNotFound)
	}
	task.startTime = time.Now()
	return nil
}

// StopTask freezes the task's elapsed clock. A task that was never started
// gets its start backfilled to the same instant, so elapsed reads zero.
func (p *Progress) StopTask(id TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[id]
	if !ok {
		return fmt.Errorf("stopping task %d: %w", id, ErrTaskNotFound)
	}
	now := time.Now()
	if task.startTime.IsZero() {
		task.startTime = now
	}
	task.stopTime = now
	return nil
}

// updateSpec collects Update settings.
type updateSpec struct {
	total     *float64
	completed *float64
	advance   *float64
	visible   *bool
	fields    map[string]any
	refresh   bool
}

// UpdateOption mutates one aspect of a task in an Update call.
type UpdateOption func(*updateSpec)

// SetTotal overrides the task's total step count.
func SetTotal(total float64) UpdateOption {
	return func(s *updateSpec) { s.total = &total }
}

// SetCompleted sets the absolute completed step count. When combined with
// Advance in one call, the absolute value wins.
func SetCompleted(completed float64) UpdateOption {
	return func(s *updateSpec) { s.completed = &completed }
}

// Advance adds delta to the task's completed step count.
func Advance(delta float64) UpdateOption {
	return func(s *updateSpec) { s.advance = &delta }
}

// SetVisible shows or hides the task in rendered output.
func SetVisible(visible bool) UpdateOption {
	return func(s *updateSpec) { s.visible = &visible }
}

// SetFields merges metadata into the task's fields.
func SetFields(fields map[string]any) UpdateOption {
	return func(s *updateSpec) {
		if s.fields == nil {
			s.fields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			s.fields[k] = v
		}
	}
}

// ForceRefresh triggers a synchronous repaint after the update is applied.
func ForceRefresh() UpdateOption {
	return func(s *updateSpec) { s.refresh = true }
}

// Update applies changes to a task atomically: the total override first,
// then the additive advance, then the absolute completed value. Exactly one
// progress sample is recorded per call with the net completed delta, zero
// included. The whole call holds the registry lock once, so concurrent
// updaters serialize rather than interleave field by field.
func (p *Progress) Update(id TaskID, opts ...UpdateOption) error {
	var spec updateSpec
	for _, opt := range opts {
		opt(&spec)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[id]
	if !ok {
		return fmt.Errorf("updating task %d: %w", id, ErrTaskNotFound)
	}

	before := task.completed
	if spec.total != nil {
		task.total = *spec.total
	}
	if spec.advance != nil {
		task.completed += *spec.advance
	}
	if spec.completed != nil {
		task.completed = *spec.completed
	}
	if spec.visible != nil {
		task.visible = *spec.visible
	}
	for k, v := range spec.fields {
		task.fields[k] = v
	}
	task.recordSample(time.Now(), task.completed-before)

	if spec.refresh {
		return p.refreshLocked()
	}
	return nil
}

// RemoveTask unregisters a task. Its handle becomes invalid; later
// operations on it fail with ErrTaskNotFound.
func (p *Progress) RemoveTask(id TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.tasks[id]; !ok {
		return fmt.Errorf("removing task %d: %w", id, ErrTaskNotFound)
	}
	delete(p.tasks, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// Refresh synchronously renders all visible tasks through the column
// pipeline and writes the frame to the sink.
func (p *Progress) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshLocked()
}

// refreshLocked assembles and writes one frame. Callers hold p.mu; keeping
// render assembly under the lock means a frame can never show a
// half-applied update, and a slow sink backpressures updaters instead of
// letting them race ahead.
func (p *Progress) refreshLocked() error {
	grid := render.NewGrid(len(p.columns))
	for i := range p.columns {
		grid.SetNoWrap(i)
	}
	for _, id := range p.order {
		task := p.tasks[id]
		if !task.visible {
			continue
		}
		cells := make([]string, len(p.columns))
		for i, col := range p.columns {
			cells[i] = col.Render(task)
		}
		grid.Row(cells...)
	}

	if err := p.sink.WriteFrame(grid.Render()); err != nil {
		return fmt.Errorf("refreshing progress: %w", err)
	}
	p.refreshCount++
	return nil
}

// TaskIDs returns the registered task handles in registration order.
func (p *Progress) TaskIDs() []TaskID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]TaskID(nil), p.order...)
}

// Finished reports whether every registered task is finished. An empty
// registry counts as finished.
func (p *Progress) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, task := range p.tasks {
		if !task.Finished() {
			return false
		}
	}
	return true
}

// Snapshot returns a detached copy of the task's current state. The copy
// shares nothing with the live task, so it stays coherent while updates
// continue.
func (p *Progress) Snapshot(id TaskID) (Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	task, ok := p.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("snapshotting task %d: %w", id, ErrTaskNotFound)
	}
	return task.snapshot(), nil
}

// logEvent records an event if a logger is attached. Event log failures
// have nowhere useful to go, so they are dropped.
func (p *Progress) logEvent(level, eventType, message string, data map[string]any) {
	if p.events == nil {
		return
	}
	_ = p.events.LogEvent(level, eventType, message, data)
}
