// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Default speedrun.com API endpoint.
const defaultAPIBaseURL = "https://www.speedrun.com/api/v1/"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for the read API, e.g. ":9080".
	Addr string `koanf:"addr"`

	// GameID is the tracked game's id at the data source.
	GameID string `koanf:"game_id"`

	// APIBaseURL points at the run data source API root.
	APIBaseURL string `koanf:"api_base_url"`

	// PollIntervalS is the pause between polling cycles, in seconds.
	PollIntervalS int `koanf:"poll_interval_s"`

	// RetryAttempts bounds retries per source request.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryDelayS is the fixed delay between retry attempts, in seconds.
	RetryDelayS int `koanf:"retry_delay_s"`

	// PageSize caps how many runs one fetch returns.
	PageSize int `koanf:"page_size"`

	// SeenWindow bounds the most-recently-seen run id window.
	SeenWindow int `koanf:"seen_window"`

	// QueueSize bounds the in-memory announcement queue.
	QueueSize int `koanf:"queue_size"`

	// SnapshotPath locates the sqlite snapshot database.
	SnapshotPath string `koanf:"snapshot_path"`

	// WebhookURL receives new-record notifications. Empty disables delivery.
	WebhookURL string `koanf:"webhook_url"`

	// ToggleVariants lists variable names treated as separating even without
	// the subcategory flag.
	ToggleVariants []string `koanf:"toggle_variants"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		GameID:         "76rqjqd8",
		APIBaseURL:     defaultAPIBaseURL,
		PollIntervalS:  30,
		RetryAttempts:  3,
		RetryDelayS:    5,
		PageSize:       30,
		SeenWindow:     30,
		QueueSize:      1024,
		SnapshotPath:   "srcwatch.db",
		WebhookURL:     "",
		ToggleVariants: []string{"amiibo"},
	}
	return c
}
