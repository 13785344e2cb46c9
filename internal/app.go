// Package internal provides the App struct that wires all components of
// jobkit together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/valter-silva-au/jobkit/internal/cli"
	"github.com/valter-silva-au/jobkit/internal/core"
	"github.com/valter-silva-au/jobkit/internal/observability"
	"github.com/valter-silva-au/jobkit/internal/storage"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// App holds all service dependencies for jobkit.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.GlobalConfig

	// Storage layer
	StateMgr storage.StateManager

	// Core services
	Tracker   core.Tracker
	Routes    *core.RouteTable
	Navigator *cli.PrintNavigator

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of jobkit and loads the saved
// kits and tasks. basePath is the directory holding .jobkitconfig and the
// data files (typically found by ResolveBasePath).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	globalCfg, err := app.ConfigMgr.LoadGlobalConfig()
	if err != nil {
		// Use defaults if the config file cannot be read.
		globalCfg = core.DefaultGlobalConfig()
	}
	if err := app.ConfigMgr.ValidateConfig(globalCfg); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", core.ConfigFileName, err)
	}
	app.Config = globalCfg

	// --- Storage layer ---
	app.StateMgr = storage.NewStateManager(resolvePath(basePath, globalCfg.DataFile))

	// --- Observability ---
	app.EventLog, err = observability.NewJSONLEventLog(resolvePath(basePath, globalCfg.EventsFile))
	if err != nil {
		// Non-fatal: disable the event log and metrics if the log can't be created.
		app.EventLog = nil
	}
	thresholds := observability.AlertThresholds{
		StaleDays:    globalCfg.Alerts.StaleDays,
		MaxSavedKits: globalCfg.Alerts.MaxSavedKits,
	}
	app.AlertEngine = observability.NewAlertEngine(thresholds, nil)
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if globalCfg.Notifications.Enabled && globalCfg.Notifications.Slack.WebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(globalCfg.Notifications.Slack.WebhookURL)
	}

	// --- Core services ---
	app.Routes, err = core.NewRouteTable(globalCfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("building action routes: %w", err)
	}
	app.Navigator = cli.NewPrintNavigator(os.Stdout)

	var evtAdapter core.EventLogger
	if app.EventLog != nil {
		evtAdapter = &eventLogAdapter{log: app.EventLog}
	}
	app.Tracker = core.NewTracker(core.TrackerDeps{
		State:     &stateStoreAdapter{mgr: app.StateMgr},
		Events:    evtAdapter,
		Navigator: app.Navigator,
		Routes:    app.Routes,
		Profile:   core.StaticProfile(globalCfg.Profile),
	})
	if err := app.Tracker.Load(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", app.StateMgr.Path(), err)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = globalCfg
	cli.Tracker = app.Tracker
	cli.Navigator = app.Navigator
	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the jobkit base directory. JOBKIT_HOME wins;
// otherwise the nearest ancestor of the working directory containing a
// .jobkitconfig is used, falling back to the working directory itself.
func ResolveBasePath() string {
	if home := os.Getenv("JOBKIT_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		for _, name := range []string{core.ConfigFileName, core.ConfigFileName + ".yaml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

func resolvePath(basePath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// --- Adapters ---

// stateStoreAdapter adapts storage.StateManager to core.StateStore.
type stateStoreAdapter struct {
	mgr storage.StateManager
}

func (a *stateStoreAdapter) Load() (*core.Snapshot, error) {
	state, err := a.mgr.Load()
	if err != nil {
		return nil, err
	}
	return &core.Snapshot{Kits: state.Kits, Tasks: state.Tasks}, nil
}

func (a *stateStoreAdapter) Save(snap *core.Snapshot) error {
	return a.mgr.Save(&storage.StateFile{
		Version: storage.CurrentVersion,
		Kits:    snap.Kits,
		Tasks:   snap.Tasks,
	})
}

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log observability.EventLog
}

func (a *eventLogAdapter) LogEvent(eventType string, data map[string]any) error {
	return a.log.Write(observability.NewEvent(time.Now().UTC(), eventType, data))
}
