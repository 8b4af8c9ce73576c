package progress

import (
	"context"
	"time"
)

// Start begins a display session: the cursor is hidden and, when auto
// refresh is enabled, the background worker starts repainting. Start is
// idempotent while a session is active.
func (p *Progress) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	if p.autoRefresh {
		p.worker = newWorker(p.refreshPerSecond, p.Refresh, func(err error) {
			p.logEvent("ERROR", "refresh.failed", err.Error(), nil)
		})
		p.worker.start()
	}
	p.mu.Unlock()

	p.sink.SetCursorVisible(false)
	p.logEvent("INFO", "session.started", "display session started", nil)
}

// Stop ends the display session: the worker is stopped and joined, one
// final frame is rendered, a trailing newline ends the live region, and
// cursor visibility is restored as the very last step no matter what failed
// before it. Stop is idempotent; the first error encountered is returned.
func (p *Progress) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	w := p.worker
	p.worker = nil
	p.mu.Unlock()

	// Join the worker before taking the lock again: its loop may be
	// blocked in Refresh waiting for p.mu.
	if w != nil {
		w.stop()
	}

	var err error
	if rerr := p.Refresh(); rerr != nil {
		err = rerr
	}
	if lerr := p.sink.Line(); lerr != nil && err == nil {
		err = lerr
	}
	p.sink.SetCursorVisible(true)
	p.logEvent("INFO", "session.stopped", "display session stopped", nil)
	return err
}

// Run wraps fn in a display session. Stop always runs, even when fn fails;
// fn's error wins over any shutdown error.
func (p *Progress) Run(fn func() error) (err error) {
	p.Start()
	defer func() {
		stopErr := p.Stop()
		if err == nil {
			err = stopErr
		}
	}()
	return fn()
}

// Track adds a task and advances it by step every interval until it
// finishes or ctx is cancelled. It is a convenience driver for workloads
// with a known, steady shape.
func (p *Progress) Track(ctx context.Context, name string, total, step float64, interval time.Duration) error {
	id := p.AddTask(name, WithTotal(total))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Update(id, Advance(step)); err != nil {
				return err
			}
			snap, err := p.Snapshot(id)
			if err != nil {
				return err
			}
			if snap.Finished() {
				return nil
			}
		}
	}
}
