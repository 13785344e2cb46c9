package models

// AlertConfig holds thresholds for kit and task alerts.
type AlertConfig struct {
	StaleDays    int `yaml:"stale_days" mapstructure:"stale_days"`
	MaxSavedKits int `yaml:"max_saved_kits" mapstructure:"max_saved_kits"`
}

// SlackConfig holds the Slack webhook used for alert notifications.
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// NotificationConfig controls where alerts are delivered.
type NotificationConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Slack   SlackConfig `yaml:"slack" mapstructure:"slack"`
}

// GlobalConfig holds settings read from .jobkitconfig via Viper.
type GlobalConfig struct {
	DataFile        string             `yaml:"data_file" mapstructure:"data_file"`
	EventsFile      string             `yaml:"events_file" mapstructure:"events_file"`
	DefaultPriority Priority           `yaml:"default_priority" mapstructure:"default_priority"`
	DefaultTab      KitStatus          `yaml:"default_status_tab" mapstructure:"default_status_tab"`
	DefaultTaskSort string             `yaml:"default_task_sort" mapstructure:"default_task_sort"`
	Profile         UserProfile        `yaml:"profile" mapstructure:"profile"`
	Alerts          AlertConfig        `yaml:"alerts" mapstructure:"alerts"`
	Notifications   NotificationConfig `yaml:"notifications" mapstructure:"notifications"`
	Routes          map[string]string  `yaml:"routes,omitempty" mapstructure:"routes"`
}
