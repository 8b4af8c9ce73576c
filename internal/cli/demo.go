package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pacer/internal/workload"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in three-task demonstration workload",
	Long: `Run three demonstration tasks racing to completion at different speeds,
rendered as live progress bars on stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w := workload.Default()
		return runWorkload(ctx, w, "demo")
	},
}

// runWorkload drives a workload against a fresh engine, logging its
// lifecycle. An interrupt counts as a clean exit.
func runWorkload(ctx context.Context, w *workload.Workload, name string) error {
	p := newEngine()

	logCommandEvent("workload.started", name+" workload started",
		map[string]any{"workload": name, "tasks": len(w.Tasks)})
	started := time.Now()

	err := p.Run(func() error {
		return w.Run(ctx, p)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}

	logCommandEvent("workload.completed", name+" workload completed", map[string]any{
		"workload": name,
		"tasks":    len(w.Tasks),
		"elapsed":  time.Since(started).String(),
	})
	return nil
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
