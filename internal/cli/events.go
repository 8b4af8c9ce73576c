package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	eventsJSON  bool
	eventsSince string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Summarize the event log",
	Long: `Display an aggregated summary derived from the event log.

The summary includes session starts and stops, refresh failures, and event
counts by type and level.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Summarizer == nil {
			return fmt.Errorf("summarizer not initialized (event logging may be disabled)")
		}

		sinceTime, err := parseSinceDuration(eventsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		sum, err := Summarizer.Summarize(sinceTime)
		if err != nil {
			return fmt.Errorf("summarizing events: %w", err)
		}

		if eventsJSON {
			data, err := json.MarshalIndent(sum, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting summary as JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		// Table format.
		fmt.Printf("Events (since %s)\n\n", sinceTime.Format("2006-01-02"))
		fmt.Printf("  %-24s %d\n", "Events recorded:", sum.EventCount)
		fmt.Printf("  %-24s %d\n", "Sessions started:", sum.SessionsStarted)
		fmt.Printf("  %-24s %d\n", "Sessions stopped:", sum.SessionsStopped)
		fmt.Printf("  %-24s %d\n", "Refresh failures:", sum.RefreshFailures)

		if len(sum.EventsByType) > 0 {
			fmt.Println("\n  Events by type:")
			for typ, count := range sum.EventsByType {
				fmt.Printf("    %-20s %d\n", typ+":", count)
			}
		}

		if len(sum.EventsByLevel) > 0 {
			fmt.Println("\n  Events by level:")
			for level, count := range sum.EventsByLevel {
				fmt.Printf("    %-20s %d\n", level+":", count)
			}
		}

		if sum.OldestEvent != nil {
			fmt.Printf("\n  %-24s %s\n", "Oldest event:", sum.OldestEvent.Format(time.RFC3339))
		}
		if sum.NewestEvent != nil {
			fmt.Printf("  %-24s %s\n", "Newest event:", sum.NewestEvent.Format(time.RFC3339))
		}

		return nil
	},
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return now.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func init() {
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output summary as JSON")
	eventsCmd.Flags().StringVar(&eventsSince, "since", "7d", "Time window for the summary (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(eventsCmd)
}
