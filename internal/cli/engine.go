package cli

import (
	"time"

	"github.com/valter-silva-au/pacer/internal/observability"
	"github.com/valter-silva-au/pacer/pkg/progress"
)

// eventLogAdapter adapts observability.EventLog to progress.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(level, eventType, message string, data map[string]any) error {
	return a.log.Append(observability.Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Type:    eventType,
		Message: message,
		Data:    data,
	})
}

// newEngine builds a Progress configured from the loaded app config. Extra
// options layer on top of the config-derived ones.
func newEngine(opts ...progress.Option) *progress.Progress {
	var base []progress.Option
	if AppConfig != nil {
		base = append(base,
			progress.WithAutoRefresh(AppConfig.AutoRefresh),
			progress.WithRefreshPerSecond(AppConfig.RefreshPerSecond),
			progress.WithSpeedEstimatePeriod(AppConfig.SpeedEstimatePeriod),
			progress.WithColumns(progress.DefaultColumns(AppConfig.BarWidth)...),
		)
	}
	if EventLog != nil {
		base = append(base, progress.WithEventLogger(&eventLogAdapter{log: EventLog}))
	}
	return progress.New(append(base, opts...)...)
}

// barWidth returns the configured bar width, or zero to select the
// renderer's default.
func barWidth() int {
	if AppConfig == nil {
		return 0
	}
	return AppConfig.BarWidth
}

// logCommandEvent records a CLI lifecycle event when event logging is enabled.
func logCommandEvent(eventType, message string, data map[string]any) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Append(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: message,
		Data:    data,
	})
}
