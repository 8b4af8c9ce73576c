package progress

import (
	"sync"
	"time"
)

// defaultWorkerRate is the refresh rate a worker falls back to when
// constructed with a non-positive rate.
const defaultWorkerRate = 10

// worker repaints the display on a fixed cadence. It is a plain poll loop
// with no state beyond its stop channel: every interval it calls refresh,
// until stopped.
type worker struct {
	refresh  func() error
	onError  func(error)
	interval time.Duration
	done     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// newWorker creates a worker ticking refreshPerSecond times per second.
func newWorker(refreshPerSecond float64, refresh func() error, onError func(error)) *worker {
	if refreshPerSecond <= 0 {
		refreshPerSecond = defaultWorkerRate
	}
	return &worker{
		refresh:  refresh,
		onError:  onError,
		interval: time.Duration(float64(time.Second) / refreshPerSecond),
		done:     make(chan struct{}),
	}
}

// start launches the refresh loop.
func (w *worker) start() {
	w.wg.Add(1)
	go w.run()
}

func (w *worker) run() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if err := w.refresh(); err != nil && w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// stop signals the loop and blocks until it has exited. At most one further
// tick can run after the signal, and none after stop returns. Safe to call
// more than once.
func (w *worker) stop() {
	w.once.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
}
