package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pacer/pkg/progress"
)

var topInterval time.Duration

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live CPU and memory meters",
	Long: `Monitor system CPU and memory usage as live progress bars until
interrupted with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		p := newEngine(progress.WithColumns(
			progress.MustTemplateColumn("{{.Name}}"),
			progress.NewBarColumn(barWidth()),
			progress.NewPercentageColumn(),
			progress.MustTemplateColumn(`{{index .Fields "detail"}}`),
		))

		cores, err := cpu.CountsWithContext(ctx, true)
		if err != nil {
			return fmt.Errorf("counting cpus: %w", err)
		}
		cpuID := p.AddTask("cpu", progress.WithTotal(100),
			progress.WithFields(map[string]any{"detail": fmt.Sprintf("%d cores", cores)}))
		memID := p.AddTask("mem", progress.WithTotal(100),
			progress.WithFields(map[string]any{"detail": ""}))

		if info, err := host.InfoWithContext(ctx); err == nil {
			logCommandEvent("top.started", "system monitor started", map[string]any{
				"hostname": info.Hostname,
				"os":       info.OS,
				"platform": info.Platform,
			})
		}

		return p.Run(func() error {
			// Prime the CPU sampler; the first delta reading needs a
			// reference point.
			_, _ = cpu.PercentWithContext(ctx, 0, false)

			ticker := time.NewTicker(topInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := sampleSystem(ctx, p, cpuID, memID); err != nil {
						if errors.Is(err, context.Canceled) {
							return nil
						}
						return err
					}
				}
			}
		})
	},
}

// sampleSystem reads current CPU and memory usage into the two meter tasks.
func sampleSystem(ctx context.Context, p *progress.Progress, cpuID, memID progress.TaskID) error {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("reading cpu usage: %w", err)
	}
	if len(percents) > 0 {
		if err := p.Update(cpuID, progress.SetCompleted(percents[0])); err != nil {
			return err
		}
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("reading memory usage: %w", err)
	}
	detail := fmt.Sprintf("%s / %s", humanize.Bytes(vm.Used), humanize.Bytes(vm.Total))
	return p.Update(memID,
		progress.SetCompleted(vm.UsedPercent),
		progress.SetFields(map[string]any{"detail": detail}),
	)
}

func init() {
	topCmd.Flags().DurationVar(&topInterval, "interval", time.Second, "Sampling interval")
	rootCmd.AddCommand(topCmd)
}
