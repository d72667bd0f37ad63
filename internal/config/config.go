package config

import (
	"os"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval    = 5
	DefaultDebounceMS  = 50
	DefaultRendererURL = "ws://127.0.0.1:9030/session"
	DefaultDBPath      = "/var/lib/morphctl/avatars.db"
)

type Config struct {
	Interval    int    `mapstructure:"interval"`
	DebounceMS  int    `mapstructure:"debounce_ms"`
	RendererURL string `mapstructure:"renderer_url"`
	Database    string `mapstructure:"database"`
	User        string `mapstructure:"user"`
	Avatar      string `mapstructure:"avatar"`
	Monitor     bool   `mapstructure:"monitor"`
	Debug       bool   `mapstructure:"debug"`
	Verbose     bool   `mapstructure:"verbose"`
}

// Debounce returns the delivery debounce delay as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("debounce_ms", DefaultDebounceMS)
	v.SetDefault("renderer_url", DefaultRendererURL)
	v.SetDefault("database", DefaultDBPath)
	v.SetDefault("user", "")
	v.SetDefault("avatar", "")
	v.SetDefault("monitor", false)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)

	flags := pflag.NewFlagSet("morphctl", pflag.ContinueOnError)
	flags.Int("interval", DefaultInterval, "Seconds between derivation passes")
	flags.Int("debounce", DefaultDebounceMS, "Delivery debounce delay in milliseconds")
	flags.String("renderer", DefaultRendererURL, "Renderer session WebSocket URL")
	flags.String("database", DefaultDBPath, "Path to the avatar database")
	flags.String("user", "", "Owning user ID of the avatar")
	flags.String("avatar", "", "Avatar ID to drive")
	flags.Bool("monitor", false, "Derive and log without dispatching commands")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Load configuration from file. An explicit MORPHCTL_CONFIG path must
	// exist and parse; the default search paths are allowed to be empty.
	if path := os.Getenv("MORPHCTL_CONFIG"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("morphctl")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Command line flags override config file values
	bind := map[string]string{
		"interval": "interval",
		"debounce": "debounce_ms",
		"renderer": "renderer_url",
		"database": "database",
		"user":     "user",
		"avatar":   "avatar",
		"monitor":  "monitor",
		"debug":    "debug",
		"verbose":  "verbose",
	}
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := bind[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "interval must be positive")
	}
	if c.DebounceMS <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "debounce_ms must be positive")
	}
	if c.RendererURL == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "renderer_url is required")
	}
	if c.Database == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "database is required")
	}

	return nil
}
