package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/ballpark/config.yaml",
}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Explore   ExploreConfig   `koanf:"explore"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	SMTP      SMTPConfig      `koanf:"smtp"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	Mode            string        `koanf:"mode"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is one of mysql, postgres, sqlite.
	Driver   string `koanf:"driver"`
	URL      string `koanf:"url"`
	LogLevel string `koanf:"log_level"`
	Seed     bool   `koanf:"seed"`
}

type AuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret"`
	CronSecret string `koanf:"cron_secret"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SchedulerConfig controls the in-process publish trigger. The HTTP cron
// endpoint works regardless of this setting.
type SchedulerConfig struct {
	Enabled bool   `koanf:"enabled"`
	Spec    string `koanf:"spec"`
}

type ExploreConfig struct {
	AnonymousLimit  int           `koanf:"anonymous_limit"`
	BranchLimit     int           `koanf:"branch_limit"`
	TrendWindow     time.Duration `koanf:"trend_window"`
	TrendFetchLimit int           `koanf:"trend_fetch_limit"`
	TrendTopN       int           `koanf:"trend_top_n"`
	SuggestLimit    int           `koanf:"suggest_limit"`
	SearchLimit     int           `koanf:"search_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `koanf:"requests_per_minute"`
	Burst             int `koanf:"burst"`
}

type SMTPConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Host      string `koanf:"host"`
	Port      int    `koanf:"port"`
	Username  string `koanf:"username"`
	Password  string `koanf:"password"`
	FromEmail string `koanf:"from_email"`
	FromName  string `koanf:"from_name"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "debug",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   "mysql",
			URL:      "user:password@tcp(localhost:3306)/ballpark?charset=utf8mb4&parseTime=True&loc=UTC",
			LogLevel: "warn",
		},
		Auth: AuthConfig{
			JWTSecret: "your-secret-key",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Scheduler: SchedulerConfig{
			Enabled: true,
			Spec:    "@every 1m",
		},
		Explore: DefaultExplore(),
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             30,
		},
		SMTP: SMTPConfig{
			Host:      "sandbox.smtp.mailtrap.io",
			Port:      2525,
			FromEmail: "noreply@ballpark.social",
			FromName:  "Baseball Social",
		},
	}
}

// DefaultExplore returns the ranking limits the explore endpoints ship with.
func DefaultExplore() ExploreConfig {
	return ExploreConfig{
		AnonymousLimit:  20,
		BranchLimit:     10,
		TrendWindow:     7 * 24 * time.Hour,
		TrendFetchLimit: 20,
		TrendTopN:       10,
		SuggestLimit:    10,
		SearchLimit:     10,
	}
}

// Load reads defaults, then an optional YAML file, then environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the values the rest of the service relies on.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return errors.New("database url is required")
	}
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}

	e := c.Explore
	if e.AnonymousLimit <= 0 || e.BranchLimit <= 0 || e.TrendFetchLimit <= 0 ||
		e.TrendTopN <= 0 || e.SuggestLimit <= 0 || e.SearchLimit <= 0 {
		return errors.New("explore limits must be positive")
	}
	if e.TrendWindow <= 0 {
		return errors.New("explore trend window must be positive")
	}
	if c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate limit values must be positive")
	}
	if c.Scheduler.Enabled && c.Scheduler.Spec == "" {
		return errors.New("scheduler spec is required when the scheduler is enabled")
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":                    "server.port",
	"gin_mode":                "server.mode",
	"cors_origins":            "server.cors_origins",
	"shutdown_timeout":        "server.shutdown_timeout",
	"database_driver":         "database.driver",
	"database_url":            "database.url",
	"database_log_level":      "database.log_level",
	"seed_data":               "database.seed",
	"jwt_secret":              "auth.jwt_secret",
	"cron_secret":             "auth.cron_secret",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
	"scheduler_enabled":       "scheduler.enabled",
	"scheduler_spec":          "scheduler.spec",
	"explore_anonymous_limit": "explore.anonymous_limit",
	"explore_branch_limit":    "explore.branch_limit",
	"explore_trend_window":    "explore.trend_window",
	"explore_trend_fetch":     "explore.trend_fetch_limit",
	"explore_trend_top_n":     "explore.trend_top_n",
	"explore_suggest_limit":   "explore.suggest_limit",
	"explore_search_limit":    "explore.search_limit",
	"rate_limit_per_minute":   "rate_limit.requests_per_minute",
	"rate_limit_burst":        "rate_limit.burst",
	"smtp_enabled":            "smtp.enabled",
	"smtp_host":               "smtp.host",
	"smtp_port":               "smtp.port",
	"smtp_username":           "smtp.username",
	"smtp_password":           "smtp.password",
	"from_email":              "smtp.from_email",
	"from_name":               "smtp.from_name",
}

// envTransform maps known environment variables onto config paths and drops
// everything else.
func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

func splitCommaList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
