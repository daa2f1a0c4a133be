// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Makepad-fr/tada/internal/model"
)

// Default values.
const (
	DefaultAPIURL   = "http://localhost:8080"
	DefaultTimeout  = 10 * time.Second
	DefaultTheme    = "classic"
	DefaultLogLevel = "info"

	ProjectConfigFile = ".tada.toml"
)

// Config holds the full configuration for the todo client.
type Config struct {
	// Remote API
	APIURL  string        `toml:"api_url"`
	Timeout time.Duration `toml:"timeout"`

	// Output
	Theme  string `toml:"theme"`
	Filter string `toml:"filter"`
	Group  bool   `toml:"group"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	LogFile   string `toml:"log_file"`

	// ConfigFile is the explicit -config / TADA_CONFIG file, if any.
	ConfigFile string `toml:"-"`
}

// Load builds the configuration from, in increasing priority:
// 1. Defaults
// 2. User config file (<user config dir>/tada/config.toml)
// 3. Project config file (.tada.toml in the current directory)
// 4. Explicit file (-config flag or TADA_CONFIG)
// 5. Environment variables
// 6. CLI flags
//
// fs receives the flag definitions; fs.Args() holds the subcommand afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := userConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := projectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	explicit := lookupFlag(args, "config")
	if explicit == "" {
		explicit = os.Getenv("TADA_CONFIG")
	}
	if explicit != "" {
		if err := loadConfigFile(cfg, explicit); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicit, err)
		}
		cfg.ConfigFile = explicit
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.Timeout = DefaultTimeout
	cfg.Theme = DefaultTheme
	cfg.Filter = model.FilterAll.String()
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = "text"
}

// Validate rejects values no command can work with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_url %q: want an http(s) URL", c.APIURL))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %s: must be positive", c.Timeout))
	}
	if _, err := model.ParseFilter(c.Filter); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DefaultFilter returns the parsed Filter setting.
func (c *Config) DefaultFilter() model.Filter {
	f, _ := model.ParseFilter(c.Filter)
	return f
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(dir, "tada", "config.toml"))
}

func projectConfigFile() string {
	return existing(ProjectConfigFile)
}

func existing(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}
	return ""
}

// loadFromEnv overrides config from TADA_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("TADA_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("TADA_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_FILTER"); v != "" {
		cfg.Filter = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// parseDuration accepts Go durations ("5s") or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(strings.TrimSpace(s))
}

// parseFlags defines the root flags on fs and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todo", flag.ContinueOnError)
	}
	var configFile string

	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the todos API")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "output theme: classic, neon or mono")
	fs.StringVar(&cfg.Filter, "filter", cfg.Filter, "default filter: all, active or completed")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by active/completed")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text, json or logfmt")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file")
	fs.StringVar(&configFile, "config", cfg.ConfigFile, "extra TOML config file")

	return fs.Parse(args)
}

// lookupFlag finds -name value, --name value, -name=value or --name=value
// ahead of the flag parse, so the file can load before env and flags apply.
func lookupFlag(args []string, name string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return ""
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		key := strings.TrimLeft(a, "-")
		if k, v, ok := strings.Cut(key, "="); ok {
			if k == name {
				return v
			}
			continue
		}
		if key == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
