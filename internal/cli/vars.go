package cli

import (
	"github.com/valter-silva-au/pacer/internal/config"
	"github.com/valter-silva-au/pacer/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	AppConfig  *config.Config
	EventLog   observability.EventLog
	Summarizer observability.Summarizer
)
