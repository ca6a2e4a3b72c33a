// Package config provides configuration types and defaults for fitcoach.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/fitcoach/internal/log"
)

// Config holds all configuration options for fitcoach.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Video   VideoConfig   `mapstructure:"video"`
	UI      UIConfig      `mapstructure:"ui"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Debug   bool          `mapstructure:"debug"`
	LogFile string        `mapstructure:"log_file"`
}

// APIConfig configures the coaching service collaborator.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds every collaborator call. A call that exceeds it fails
	// like any other transport error.
	Timeout time.Duration `mapstructure:"timeout"`

	// RequestsPerSecond and Burst throttle outgoing calls. Zero disables.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// VideoConfig configures exercise video lookup.
type VideoConfig struct {
	MaxResults   int           `mapstructure:"max_results"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`      // 0 disables the in-memory result cache
	DefaultLevel string        `mapstructure:"default_level"` // used when the profile has no experience level
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
}

// TracingConfig holds OpenTelemetry configuration for collaborator calls.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // none, file, stdout, otlp
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// DefaultTracesFilePath returns ~/.config/fitcoach/traces/traces.jsonl or
// empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fitcoach", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8000",
			Timeout:           60 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Video: VideoConfig{
			MaxResults:   10,
			CacheTTL:     10 * time.Minute,
			DefaultLevel: "beginners",
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		LogFile: "fitcoach-debug.log",
	}
}

// Validate checks every section and returns the first problem found.
func Validate(c Config) error {
	if err := ValidateAPI(c.API); err != nil {
		return err
	}
	if err := ValidateVideo(c.Video); err != nil {
		return err
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateAPI checks the collaborator settings.
func ValidateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", api.BaseURL)
	}
	if api.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %s", api.Timeout)
	}
	if api.RequestsPerSecond < 0 {
		return fmt.Errorf("api.requests_per_second must not be negative, got %v", api.RequestsPerSecond)
	}
	if api.RequestsPerSecond > 0 && api.Burst < 1 {
		return fmt.Errorf("api.burst must be at least 1 when rate limiting is enabled, got %d", api.Burst)
	}
	return nil
}

// ValidateVideo checks video lookup settings.
func ValidateVideo(v VideoConfig) error {
	if v.MaxResults < 1 || v.MaxResults > 50 {
		return fmt.Errorf("video.max_results must be between 1 and 50, got %d", v.MaxResults)
	}
	if v.CacheTTL < 0 {
		return fmt.Errorf("video.cache_ttl must not be negative, got %s", v.CacheTTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
	}

	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# fitcoach configuration

# Coaching service
api:
  base_url: http://localhost:8000
  timeout: 60s               # per-request timeout; a timed out call shows as failed
  requests_per_second: 5     # outgoing request throttle (0 disables)
  burst: 5

# Exercise video lookup
video:
  max_results: 10
  cache_ttl: 10m             # in-memory result cache, cleared on new session (0 disables)
  default_level: beginners   # used when no experience level is known

ui:
  markdown_style: dark       # "dark" (default) or "light"

# Tracing of calls to the coaching service
# tracing:
#   enabled: false
#   exporter: file           # none, file, stdout, otlp
#   file_path: ~/.config/fitcoach/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
