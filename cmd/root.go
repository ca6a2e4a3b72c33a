package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/fitcoach/internal/api"
	"github.com/zjrosen/fitcoach/internal/app"
	"github.com/zjrosen/fitcoach/internal/config"
	"github.com/zjrosen/fitcoach/internal/log"
	"github.com/zjrosen/fitcoach/internal/session"
	"github.com/zjrosen/fitcoach/internal/tracing"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin, otherwise
	// the OSC 11 reply can leak into text inputs.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	envPrefix         = "FITCOACH"
	localConfigPath   = ".fitcoach/config.yaml"
	configDirName     = "fitcoach"
	tracerShutdownMax = 5 * time.Second
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:     "fitcoach",
	Short:   "A terminal fitness coach",
	Long:    `A terminal user interface that builds a personalised workout and nutrition plan, finds exercise demo videos and answers follow-up questions.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE:         runApp,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/fitcoach/config.yaml)")
	rootCmd.Flags().String("api-url", "",
		"base URL of the coaching service")
	rootCmd.Flags().Bool("debug", false,
		"write a debug log and show the latest entry in the status bar")
}

// initConfig loads .env, the config file and FITCOACH_* overrides into cfg.
func initConfig(cmd *cobra.Command) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	if f := cmd.Flags().Lookup("api-url"); f != nil {
		_ = v.BindPFlag("api.base_url", f)
	}
	if f := cmd.Flags().Lookup("debug"); f != nil {
		_ = v.BindPFlag("debug", f)
	}

	loaded, err := loadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// loadConfig reads configuration into a Config. When path is empty the
// lookup order is .fitcoach/config.yaml, then ~/.config/fitcoach/config.yaml;
// if neither exists a commented default is written to .fitcoach/config.yaml.
func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	setDefaults(v, config.Defaults())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		v.SetConfigFile(localConfigPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", configDirName))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				v.SetConfigFile(localConfigPath)
				_ = v.ReadInConfig()
			}
			// Without a writable directory the defaults still apply.
		default:
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(c); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.requests_per_second", d.API.RequestsPerSecond)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("video.max_results", d.Video.MaxResults)
	v.SetDefault("video.cache_ttl", d.Video.CacheTTL)
	v.SetDefault("video.default_level", d.Video.DefaultLevel)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_file", d.LogFile)
}

func runApp(cmd *cobra.Command, args []string) error {
	if cfg.Debug {
		cleanup, err := log.Init(cfg.LogFile)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		defer cleanup()
		log.Info(log.CatConfig, "fitcoach starting", "version", version, "api", cfg.API.BaseURL)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracerShutdownMax)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "tracer shutdown failed", err)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := api.NewFromConfig(cfg.API, provider.Tracer())
	orch := session.New(ctx, client, cfg.Video)
	defer orch.Close()

	zone.NewGlobal()
	model := app.New(ctx, orch, cfg)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
