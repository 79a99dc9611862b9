package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	FeedBrowser = "browser"
	FeedHTTP    = "http"
	FeedFile    = "file"

	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Feed     FeedConfig     `yaml:"feed"`
	Filter   FilterConfig   `yaml:"filter"`
	History  HistoryConfig  `yaml:"history"`
	Telegram TelegramConfig `yaml:"telegram"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type FeedConfig struct {
	Mode         string        `yaml:"mode"` // browser, http or file
	URL          string        `yaml:"url"`
	File         string        `yaml:"file"` // saved page for mode=file
	UserAgent    string        `yaml:"user_agent"`
	Headless     bool          `yaml:"headless"`
	Timeout      time.Duration `yaml:"timeout"`
	TableTimeout time.Duration `yaml:"table_timeout"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	ClickDelay   time.Duration `yaml:"click_delay"`
}

type FilterConfig struct {
	MinMinute int `yaml:"min_minute"`
	MaxMinute int `yaml:"max_minute"`
}

type HistoryConfig struct {
	Backend              string         `yaml:"backend"` // file, redis or postgres
	File                 string         `yaml:"file"`
	RearmWindow          time.Duration  `yaml:"rearm_window"`
	Retention            time.Duration  `yaml:"retention"`             // pruning during a scan
	MaintenanceRetention time.Duration  `yaml:"maintenance_retention"` // default for the history tool
	Redis                RedisConfig    `yaml:"redis"`
	Postgres             PostgresConfig `yaml:"postgres"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	BotToken     string        `yaml:"bot_token"`
	ChatID       string        `yaml:"chat_id"` // numeric id or @channel
	APIEndpoint  string        `yaml:"api_endpoint"`
	MessageDelay time.Duration `yaml:"message_delay"`
	SendTimeout  time.Duration `yaml:"send_timeout"`
}

type SnapshotConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty disables the file handler
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			Mode:         FeedBrowser,
			URL:          "https://www.nowgoal.com/",
			Headless:     false,
			Timeout:      90 * time.Second,
			TableTimeout: 15 * time.Second,
			SettleDelay:  3 * time.Second,
			ClickDelay:   5 * time.Second,
		},
		Filter: FilterConfig{
			MinMinute: 30,
			MaxMinute: 60,
		},
		History: HistoryConfig{
			Backend:              BackendFile,
			File:                 "sent_matches.json",
			RearmWindow:          time.Hour,
			Retention:            6 * time.Hour,
			MaintenanceRetention: 24 * time.Hour,
			Redis:                RedisConfig{Key: "cornerwatch:sent_matches"},
		},
		Telegram: TelegramConfig{
			MessageDelay: 500 * time.Millisecond,
			SendTimeout:  30 * time.Second,
		},
		Snapshot: SnapshotConfig{
			Enabled: true,
			File:    "nowgoal_matches_losing_or_drawing_more_corners_filtered.json",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "scraper.log",
		},
	}
}

// Load reads configPath over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string) (bool, bool, error) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return false, false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false, fmt.Errorf("invalid %s: %w", key, err)
		}
		return b, true, nil
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	str("SENT_MATCHES_FILE", &c.History.File)
	str("POSTGRES_DSN", &c.History.Postgres.DSN)
	str("REDIS_ADDR", &c.History.Redis.Addr)

	if err := integer("MIN_MINUTE", &c.Filter.MinMinute); err != nil {
		return err
	}
	if err := integer("MAX_MINUTE", &c.Filter.MaxMinute); err != nil {
		return err
	}

	debug, set, err := boolean("DEBUG_MODE")
	if err != nil {
		return err
	}
	if set && debug {
		c.Logging.Level = "debug"
	}

	headless, set, err := boolean("HEADLESS_MODE")
	if err != nil {
		return err
	}
	if set {
		c.Feed.Headless = headless
	}

	// CI runners have no display.
	ci, set, err := boolean("GITHUB_ACTIONS")
	if err != nil {
		return err
	}
	if set && ci {
		c.Feed.Headless = true
	}
	return nil
}

// TelegramEnabled reports whether alerts can be delivered.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func (c *Config) Validate() error {
	var errs []error

	if c.Filter.MinMinute < 0 || c.Filter.MaxMinute < 0 {
		errs = append(errs, errors.New("filter minutes must be non-negative"))
	}
	if c.Filter.MinMinute > c.Filter.MaxMinute {
		errs = append(errs, fmt.Errorf("filter.min_minute (%d) is greater than filter.max_minute (%d)", c.Filter.MinMinute, c.Filter.MaxMinute))
	}

	switch c.Feed.Mode {
	case FeedBrowser, FeedHTTP:
		if c.Feed.URL == "" {
			errs = append(errs, errors.New("feed.url is required"))
		}
	case FeedFile:
		if c.Feed.File == "" {
			errs = append(errs, errors.New("feed.file is required for mode=file"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown feed.mode %q", c.Feed.Mode))
	}
	if c.Feed.Timeout <= 0 {
		errs = append(errs, errors.New("feed.timeout must be positive"))
	}

	if c.History.RearmWindow <= 0 {
		errs = append(errs, errors.New("history.rearm_window must be positive"))
	}
	if c.History.Retention <= 0 || c.History.MaintenanceRetention <= 0 {
		errs = append(errs, errors.New("history retention horizons must be positive"))
	}
	switch c.History.Backend {
	case BackendFile:
		if c.History.File == "" {
			errs = append(errs, errors.New("history.file is required"))
		}
	case BackendRedis:
		if c.History.Redis.Addr == "" {
			errs = append(errs, errors.New("history.redis.addr is required"))
		}
	case BackendPostgres:
		if c.History.Postgres.DSN == "" {
			errs = append(errs, errors.New("history.postgres.dsn is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown history.backend %q", c.History.Backend))
	}

	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		errs = append(errs, errors.New("telegram.chat_id is required when a bot token is set"))
	}
	if c.Telegram.MessageDelay < 0 {
		errs = append(errs, errors.New("telegram.message_delay must not be negative"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}

	return errors.Join(errs...)
}
