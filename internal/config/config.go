// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Run        RunConfig        `mapstructure:"run"`
	Probe      ProbeConfig      `mapstructure:"probe"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Report     ReportConfig     `mapstructure:"report"`
	Storage    StorageConfig    `mapstructure:"storage"`
	DB         DBConfig         `mapstructure:"db"`
	PubSub     PubSubConfig     `mapstructure:"pubsub"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls the observability HTTP server.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// RunConfig governs scheduling and retry behavior for one run.
type RunConfig struct {
	TabLimit            int `mapstructure:"tab_limit"`
	CategoryParallelism int `mapstructure:"category_parallelism"`
	CheckTimeoutSeconds int `mapstructure:"check_timeout_seconds"`
	ProbeAttempts       int `mapstructure:"probe_attempts"`
	ClassifyAttempts    int `mapstructure:"classify_attempts"`
}

// ProbeConfig configures the browser probe.
type ProbeConfig struct {
	Engine            string `mapstructure:"engine"`
	UserAgent         string `mapstructure:"user_agent"`
	MaxParallel       int    `mapstructure:"max_parallel"`
	NavTimeoutSeconds int    `mapstructure:"nav_timeout_seconds"`
	SignalMaxBytes    int    `mapstructure:"signal_max_bytes"`
}

// ClassifierConfig selects and configures the verdict classifier.
type ClassifierConfig struct {
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	MinSignalBytes int    `mapstructure:"min_signal_bytes"`
}

// ReportConfig controls report file output.
type ReportConfig struct {
	Path   string `mapstructure:"path"`
	Pretty bool   `mapstructure:"pretty"`
}

// StorageConfig selects the report archive backend.
type StorageConfig struct {
	Provider string `mapstructure:"provider"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Dir      string `mapstructure:"dir"`
}

// DBConfig controls the optional run-history database.
type DBConfig struct {
	DSN string `mapstructure:"dsn"`
}

// PubSubConfig holds metadata for run-completion notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig toggles zap development features and file output.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SITESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// The classifier key commonly arrives via the provider's own variable.
	if err := v.BindEnv("classifier.api_key", "SITESCOUT_CLASSIFIER_API_KEY", "GEMINI_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("run.tab_limit", 5)
	v.SetDefault("run.category_parallelism", 1)
	v.SetDefault("run.check_timeout_seconds", 60)
	v.SetDefault("run.probe_attempts", 2)
	v.SetDefault("run.classify_attempts", 2)
	v.SetDefault("probe.engine", "headless")
	v.SetDefault("probe.user_agent", "sitescout-bot/0.1")
	v.SetDefault("probe.max_parallel", 10)
	v.SetDefault("probe.nav_timeout_seconds", 30)
	v.SetDefault("probe.signal_max_bytes", 4096)
	v.SetDefault("classifier.provider", "heuristic")
	v.SetDefault("classifier.model", "gemini-1.5-flash")
	v.SetDefault("classifier.min_signal_bytes", 80)
	v.SetDefault("report.path", "website_status.json")
	v.SetDefault("report.pretty", true)
	v.SetDefault("storage.provider", "noop")
	v.SetDefault("storage.prefix", "reports")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.file", "sitescout.log")
}

// Validate enforces required values and reasonable limits. Failures here are
// fatal: the run never starts on a broken configuration.
func (c Config) Validate() error {
	if c.Server.Enabled && c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Run.TabLimit <= 0 {
		return fmt.Errorf("run.tab_limit must be > 0")
	}
	if c.Run.CategoryParallelism <= 0 {
		return fmt.Errorf("run.category_parallelism must be > 0")
	}
	if c.Run.CheckTimeoutSeconds <= 0 {
		return fmt.Errorf("run.check_timeout_seconds must be > 0")
	}
	if c.Run.ProbeAttempts < 1 {
		return fmt.Errorf("run.probe_attempts must be >= 1")
	}
	if c.Run.ClassifyAttempts < 1 {
		return fmt.Errorf("run.classify_attempts must be >= 1")
	}
	switch c.Probe.Engine {
	case "headless", "web":
	default:
		return fmt.Errorf("probe.engine must be headless or web, got %q", c.Probe.Engine)
	}
	switch c.Classifier.Provider {
	case "gemini":
		if c.Classifier.APIKey == "" {
			return fmt.Errorf("classifier.api_key must be set when classifier.provider is gemini")
		}
	case "heuristic":
	default:
		return fmt.Errorf("classifier.provider must be gemini or heuristic, got %q", c.Classifier.Provider)
	}
	switch c.Storage.Provider {
	case "noop":
	case "local":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir must be set when storage.provider is local")
		}
	case "gcs":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket must be set when storage.provider is gcs")
		}
	default:
		return fmt.Errorf("unknown storage.provider %q", c.Storage.Provider)
	}
	if c.Report.Path == "" {
		return fmt.Errorf("report.path must be set")
	}
	return nil
}

// CheckTimeout returns the per-check attempt bound as a duration.
func (c Config) CheckTimeout() time.Duration {
	return time.Duration(c.Run.CheckTimeoutSeconds) * time.Second
}

// NavTimeout returns the probe navigation bound as a duration.
func (c Config) NavTimeout() time.Duration {
	return time.Duration(c.Probe.NavTimeoutSeconds) * time.Second
}
