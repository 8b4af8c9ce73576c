// Package workload runs scripted task workloads against a progress registry.
// A workload is a set of tasks, each advancing by a fixed step on a fixed
// interval, driven concurrently until every task finishes.
package workload

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valter-silva-au/pacer/pkg/progress"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "20ms".
type Duration time.Duration

// UnmarshalYAML decodes a duration string node.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding duration: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// TaskSpec describes one scripted task.
type TaskSpec struct {
	Name     string   `yaml:"name"`
	Total    float64  `yaml:"total"`
	Step     float64  `yaml:"step"`
	Interval Duration `yaml:"interval"`
}

// Workload is a set of scripted tasks driven against one registry.
type Workload struct {
	Tasks []TaskSpec `yaml:"tasks"`
}

// Load reads and validates a workload script from a YAML file.
func Load(path string) (*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload script: %w", err)
	}

	var w Workload
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing workload script: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// Default returns the built-in demonstration workload: three tasks racing to
// 1000 at different speeds.
func Default() *Workload {
	return &Workload{
		Tasks: []TaskSpec{
			{Name: "Downloading", Total: 1000, Step: 0.5, Interval: Duration(20 * time.Millisecond)},
			{Name: "Processing", Total: 1000, Step: 0.3, Interval: Duration(20 * time.Millisecond)},
			{Name: "Cooking", Total: 1000, Step: 0.9, Interval: Duration(20 * time.Millisecond)},
		},
	}
}

// validate checks every task spec and returns a clear error message
// identifying each problem.
func (w *Workload) validate() error {
	if len(w.Tasks) == 0 {
		return fmt.Errorf("workload has no tasks")
	}

	var errs []string
	for i, spec := range w.Tasks {
		if spec.Name == "" {
			errs = append(errs, fmt.Sprintf("task %d: name must not be empty", i))
		}
		if spec.Total <= 0 {
			errs = append(errs, fmt.Sprintf("task %d: total must be positive, got %v", i, spec.Total))
		}
		if spec.Step <= 0 {
			errs = append(errs, fmt.Sprintf("task %d: step must be positive, got %v", i, spec.Step))
		}
		if spec.Interval <= 0 {
			errs = append(errs, fmt.Sprintf("task %d: interval must be positive, got %v", i, time.Duration(spec.Interval)))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("workload validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Run registers every task in script order, then drives them concurrently,
// advancing each by its step every interval until all tasks finish or the
// context is cancelled.
func (w *Workload) Run(ctx context.Context, p *progress.Progress) error {
	ids := make([]progress.TaskID, len(w.Tasks))
	for i, spec := range w.Tasks {
		ids[i] = p.AddTask(spec.Name, progress.WithTotal(spec.Total))
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range w.Tasks {
		id := ids[i]
		g.Go(func() error {
			ticker := time.NewTicker(time.Duration(spec.Interval))
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					if err := p.Update(id, progress.Advance(spec.Step)); err != nil {
						return fmt.Errorf("advancing %s: %w", spec.Name, err)
					}
					snap, err := p.Snapshot(id)
					if err != nil {
						return fmt.Errorf("checking %s: %w", spec.Name, err)
					}
					if snap.Finished() {
						return nil
					}
				}
			}
		})
	}
	return g.Wait()
}
