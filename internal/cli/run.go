package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/pacer/internal/workload"
)

var runCmd = &cobra.Command{
	Use:   "run <script.yaml>",
	Short: "Run a scripted workload",
	Long: `Run a workload script, rendering every task as a live progress bar.

A script lists tasks with a total, a step, and an advance interval:

  tasks:
    - name: Downloading
      total: 1000
      step: 0.5
      interval: 20ms`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		w, err := workload.Load(args[0])
		if err != nil {
			return err
		}
		return runWorkload(ctx, w, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
