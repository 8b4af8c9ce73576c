package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/valter-silva-au/pacer/pkg/progress"
)

func TestSampleSystem(t *testing.T) {
	withAppState(t, quietConfig(), nil)
	p := newEngine(progress.WithSink(discardSink{}), progress.WithAutoRefresh(false))
	defer p.Stop()

	cpuID := p.AddTask("cpu", progress.WithTotal(100))
	memID := p.AddTask("mem", progress.WithTotal(100),
		progress.WithFields(map[string]any{"detail": ""}))

	if err := sampleSystem(context.Background(), p, cpuID, memID); err != nil {
		t.Fatalf("sampleSystem: %v", err)
	}

	cpuSnap, err := p.Snapshot(cpuID)
	if err != nil {
		t.Fatalf("Snapshot(cpu): %v", err)
	}
	if cpuSnap.Completed() < 0 || cpuSnap.Completed() > 100 {
		t.Errorf("cpu completed = %v, want within [0, 100]", cpuSnap.Completed())
	}

	memSnap, err := p.Snapshot(memID)
	if err != nil {
		t.Fatalf("Snapshot(mem): %v", err)
	}
	if memSnap.Completed() <= 0 || memSnap.Completed() > 100 {
		t.Errorf("mem completed = %v, want within (0, 100]", memSnap.Completed())
	}

	detail, ok := memSnap.Field("detail")
	if !ok {
		t.Fatal("mem task has no detail field")
	}
	if s, _ := detail.(string); !strings.Contains(s, " / ") {
		t.Errorf("detail = %q, want used / total", detail)
	}
}

func TestSampleSystem_CancelledContext(t *testing.T) {
	withAppState(t, quietConfig(), nil)
	p := newEngine(progress.WithSink(discardSink{}), progress.WithAutoRefresh(false))
	defer p.Stop()

	cpuID := p.AddTask("cpu", progress.WithTotal(100))
	memID := p.AddTask("mem", progress.WithTotal(100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// gopsutil reads may or may not notice the cancelled context, but a
	// cancellation must never corrupt the meters.
	_ = sampleSystem(ctx, p, cpuID, memID)
	for _, id := range []progress.TaskID{cpuID, memID} {
		snap, err := p.Snapshot(id)
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snap.Completed() < 0 || snap.Completed() > 100 {
			t.Errorf("completed = %v, want within [0, 100]", snap.Completed())
		}
	}
}
