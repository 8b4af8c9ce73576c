package progress

import (
	"time"
)

// Column produces one rendered cell fragment for a task. Implementations
// are invoked by the registry during refresh, under its lock, and must treat
// the task as read-only. Fragments are plain or ANSI-styled single-line
// strings; the grid aligns them into columns.
type Column interface {
	Render(task *Task) string
}

// throttledColumn caches the last rendered fragment per task and reuses it
// until the interval has elapsed. Reusing the fragment (rather than merely
// skipping work) keeps the displayed value visually stable between
// recomputations, which is the point for jittery estimates.
type throttledColumn struct {
	column   Column
	interval time.Duration
	cache    map[TaskID]cachedFragment
}

type cachedFragment struct {
	at       time.Time
	fragment string
}

// Throttle wraps a column so it recomputes at most once per interval for
// each task, returning the cached fragment in between. An interval of zero
// or less returns the column unchanged. The cache belongs to the returned
// column instance and is shared by everything rendering through it.
func Throttle(column Column, interval time.Duration) Column {
	if column == nil {
		panic("progress: Throttle called with nil column")
	}
	if interval <= 0 {
		return column
	}
	return &throttledColumn{
		column:   column,
		interval: interval,
		cache:    make(map[TaskID]cachedFragment),
	}
}

// Render returns the cached fragment while it is fresh, otherwise renders
// through the wrapped column and caches the result.
func (c *throttledColumn) Render(task *Task) string {
	now := time.Now()
	if entry, ok := c.cache[task.ID()]; ok {
		if now.Sub(entry.at) < c.interval {
			return entry.fragment
		}
	}
	fragment := c.column.Render(task)
	c.cache[task.ID()] = cachedFragment{at: now, fragment: fragment}
	return fragment
}
