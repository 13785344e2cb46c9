package cli

import (
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/internal/observability"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Tracker  core.Tracker
	Config   *models.GlobalConfig

	// Navigator announces task action workflows. The dashboard silences it
	// while the alternate screen is active.
	Navigator *PrintNavigator
)

// Observability service instances, set during app initialization in app.go.
var (
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
)
