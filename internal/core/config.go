package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/jobkit/pkg/models"
)

// ConfigFileName is the name of the configuration file in the base path.
const ConfigFileName = ".jobkitconfig"

// ConfigurationManager loads and validates .jobkitconfig.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .jobkitconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultGlobalConfig returns a GlobalConfig populated with defaults.
func DefaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DataFile:        "kits.yaml",
		EventsFile:      ".jobkit_events.jsonl",
		DefaultPriority: models.PriorityMedium,
		DefaultTab:      models.StatusApplied,
		DefaultTaskSort: string(SortDefault),
		Alerts: models.AlertConfig{
			StaleDays:    7,
			MaxSavedKits: 10,
		},
	}
}

// LoadGlobalConfig reads .jobkitconfig from the base path. Missing keys and a
// missing file fall back to defaults; JOBKIT_* environment variables
// override file values (JOBKIT_DATA_FILE for data.file and so on).
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := DefaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("JOBKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data.file", cfg.DataFile)
	v.SetDefault("events.file", cfg.EventsFile)
	v.SetDefault("defaults.priority", string(cfg.DefaultPriority))
	v.SetDefault("defaults.status_tab", string(cfg.DefaultTab))
	v.SetDefault("defaults.task_sort", cfg.DefaultTaskSort)
	v.SetDefault("profile.display_name", "")
	v.SetDefault("profile.email", "")
	v.SetDefault("profile.avatar", "")
	v.SetDefault("alerts.stale_days", cfg.Alerts.StaleDays)
	v.SetDefault("alerts.max_saved_kits", cfg.Alerts.MaxSavedKits)
	v.SetDefault("notifications.enabled", false)
	v.SetDefault("notifications.slack.webhook_url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s: %w", ConfigFileName, err)
		}
	}

	cfg.DataFile = v.GetString("data.file")
	cfg.EventsFile = v.GetString("events.file")
	cfg.DefaultPriority = models.Priority(strings.ToLower(v.GetString("defaults.priority")))
	cfg.DefaultTab = models.KitStatus(strings.ToLower(v.GetString("defaults.status_tab")))
	cfg.DefaultTaskSort = strings.ToLower(v.GetString("defaults.task_sort"))
	cfg.Profile = models.UserProfile{
		DisplayName: v.GetString("profile.display_name"),
		Email:       v.GetString("profile.email"),
		Avatar:      v.GetString("profile.avatar"),
	}
	cfg.Alerts.StaleDays = v.GetInt("alerts.stale_days")
	cfg.Alerts.MaxSavedKits = v.GetInt("alerts.max_saved_kits")
	cfg.Notifications.Enabled = v.GetBool("notifications.enabled")
	cfg.Notifications.Slack.WebhookURL = v.GetString("notifications.slack.webhook_url")

	// Viper lowercases map keys, which matches how routes are looked up.
	if routes := v.GetStringMapString("routes"); len(routes) > 0 {
		cfg.Routes = routes
	}

	return cfg, nil
}

// ValidateConfig checks cfg for invalid values and reports all of them.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	return validateGlobalConfig(cfg)
}

func validateGlobalConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.DataFile) == "" {
		errs = append(errs, "data.file must not be empty")
	}
	if strings.TrimSpace(cfg.EventsFile) == "" {
		errs = append(errs, "events.file must not be empty")
	}
	if _, err := ParsePriority(string(cfg.DefaultPriority)); err != nil {
		errs = append(errs, fmt.Sprintf(
			"defaults.priority %q is invalid, must be one of: high, medium, low",
			cfg.DefaultPriority,
		))
	}
	if !IsValidStatus(cfg.DefaultTab) {
		errs = append(errs, fmt.Sprintf(
			"defaults.status_tab %q is invalid, must be one of: saved, applied, interviewing, decision, archived",
			cfg.DefaultTab,
		))
	}
	if _, err := ParseTaskSort(cfg.DefaultTaskSort); err != nil {
		errs = append(errs, fmt.Sprintf(
			"defaults.task_sort %q is invalid, must be one of: default, due, priority, created",
			cfg.DefaultTaskSort,
		))
	}
	if cfg.Alerts.StaleDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.stale_days must be non-negative, got %d", cfg.Alerts.StaleDays))
	}
	if cfg.Alerts.MaxSavedKits < 0 {
		errs = append(errs, fmt.Sprintf("alerts.max_saved_kits must be non-negative, got %d", cfg.Alerts.MaxSavedKits))
	}
	if cfg.Notifications.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, "notifications.slack.webhook_url is required when notifications are enabled")
	}
	for label, wf := range cfg.Routes {
		if !IsKnownWorkflow(wf) {
			errs = append(errs, fmt.Sprintf(
				"routes.%s: workflow %q is invalid, must be one of: resume, video, referrals, analytics, none",
				label, wf,
			))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
