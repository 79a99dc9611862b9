package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DEBUG_MODE", "HEADLESS_MODE",
		"GITHUB_ACTIONS", "MIN_MINUTE", "MAX_MINUTE", "SENT_MATCHES_FILE",
		"REDIS_ADDR", "POSTGRES_DSN",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Filter.MinMinute != 30 || cfg.Filter.MaxMinute != 60 {
		t.Errorf("minute window = %d-%d, want 30-60", cfg.Filter.MinMinute, cfg.Filter.MaxMinute)
	}
	if cfg.History.RearmWindow != time.Hour || cfg.History.Retention != 6*time.Hour || cfg.History.MaintenanceRetention != 24*time.Hour {
		t.Errorf("history durations = %+v", cfg.History)
	}
	if cfg.History.File != "sent_matches.json" || cfg.History.Backend != BackendFile {
		t.Errorf("history backend = %q %q", cfg.History.Backend, cfg.History.File)
	}
	if cfg.Telegram.MessageDelay != 500*time.Millisecond {
		t.Errorf("message delay = %v", cfg.Telegram.MessageDelay)
	}
	if cfg.TelegramEnabled() {
		t.Error("telegram should be disabled without credentials")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
feed:
  mode: file
  file: testdata/live.html
filter:
  min_minute: 20
  max_minute: 75
history:
  backend: redis
  rearm_window: 30m
  redis:
    addr: localhost:6379
telegram:
  bot_token: abc
  chat_id: "-100123"
  message_delay: 1s
logging:
  level: debug
  file: ""
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feed.Mode != FeedFile || cfg.Feed.File != "testdata/live.html" {
		t.Errorf("feed = %+v", cfg.Feed)
	}
	if cfg.Filter.MinMinute != 20 || cfg.Filter.MaxMinute != 75 {
		t.Errorf("filter = %+v", cfg.Filter)
	}
	if cfg.History.RearmWindow != 30*time.Minute {
		t.Errorf("rearm window = %v", cfg.History.RearmWindow)
	}
	// unset keys keep their defaults
	if cfg.History.Retention != 6*time.Hour {
		t.Errorf("retention = %v", cfg.History.Retention)
	}
	if cfg.Telegram.ChatID != "-100123" || cfg.Telegram.MessageDelay != time.Second || !cfg.TelegramEnabled() {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Logging.File != "" {
		t.Errorf("logging file = %q, want empty", cfg.Logging.File)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("MIN_MINUTE", "35")
	t.Setenv("MAX_MINUTE", "55")
	t.Setenv("DEBUG_MODE", "true")
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("SENT_MATCHES_FILE", "/tmp/sent.json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.BotToken != "token" || cfg.Telegram.ChatID != "42" {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Filter.MinMinute != 35 || cfg.Filter.MaxMinute != 55 {
		t.Errorf("filter = %+v", cfg.Filter)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Feed.Headless {
		t.Error("GITHUB_ACTIONS should force headless")
	}
	if cfg.History.File != "/tmp/sent.json" {
		t.Errorf("history file = %q", cfg.History.File)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIN_MINUTE", "thirty")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "MIN_MINUTE") {
		t.Errorf("Load() error = %v, want MIN_MINUTE error", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"inverted window", func(c *Config) { c.Filter.MinMinute, c.Filter.MaxMinute = 60, 30 }, "greater than"},
		{"unknown feed", func(c *Config) { c.Feed.Mode = "rss" }, "unknown feed.mode"},
		{"file feed without path", func(c *Config) { c.Feed.Mode = FeedFile }, "feed.file"},
		{"zero rearm", func(c *Config) { c.History.RearmWindow = 0 }, "rearm_window"},
		{"unknown backend", func(c *Config) { c.History.Backend = "s3" }, "unknown history.backend"},
		{"redis without addr", func(c *Config) { c.History.Backend = BackendRedis }, "redis.addr"},
		{"postgres without dsn", func(c *Config) { c.History.Backend = BackendPostgres }, "postgres.dsn"},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "x" }, "chat_id"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
