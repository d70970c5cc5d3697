package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "CONVERT_BOT_CONFIG"
	botTokenEnv       = "BOT_TOKEN"
	diskTokenEnv      = "YANDEX_DISK_TOKEN"
	adminIDsEnv       = "ADMIN_IDS"
	clientIDEnv       = "YANDEX_CLIENT_ID"
	clientSecretEnv   = "YANDEX_CLIENT_SECRET"
	redirectURIEnv    = "YANDEX_REDIRECT_URI"
	databaseDSNEnv    = "DATABASE_DSN"
	tempDirEnv        = "TEMP_DIR"
	whisperModelEnv   = "WHISPER_MODEL"
	defaultModelSize  = "base"
	defaultTempDir    = "temp"
	defaultSweepSpec  = "@hourly"
	defaultPollWindow = 30
)

// Config holds high-level settings required across the application.
type Config struct {
	Telegram Telegram `yaml:"telegram"`
	Yandex   Yandex   `yaml:"yandex"`
	Pipeline Pipeline `yaml:"pipeline"`
	Sweeper  Sweeper  `yaml:"sweeper"`
	Database Database `yaml:"database"`
	Logging  Logging  `yaml:"logging"`
}

// Telegram wires the bot transport.
type Telegram struct {
	BotToken        string  `yaml:"botToken"`
	AdminIDs        []int64 `yaml:"adminIds"`
	PollTimeoutSecs int     `yaml:"pollTimeoutSeconds"`
}

// Yandex groups disk and OAuth credentials.
type Yandex struct {
	DiskToken string `yaml:"diskToken"`
	OAuth     OAuth  `yaml:"oauth"`
}

// OAuth carries the application credentials for the token-exchange flow.
type OAuth struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RedirectURI  string `yaml:"redirectUri"`
}

// Pipeline configures the processing stages.
type Pipeline struct {
	TempDir      string `yaml:"tempDir"`
	Language     string `yaml:"language"`
	WhisperModel string `yaml:"whisperModel"`
	MaxListed    int    `yaml:"maxListed"`
}

// Sweeper configures the orphaned-artifact cleanup job.
type Sweeper struct {
	CronExpression string        `yaml:"cronExpression"`
	MaxAge         time.Duration `yaml:"maxAge"`
}

// Database describes the optional Postgres token store.
type Database struct {
	DSN string `yaml:"dsn"`
}

// Logging selects log verbosity.
type Logging struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate reports the missing settings the bot cannot start without.
func (c Config) Validate() error {
	var problems []string
	if c.Telegram.BotToken == "" {
		problems = append(problems, "telegram bot token is not set (BOT_TOKEN)")
	}
	if c.Yandex.DiskToken == "" {
		problems = append(problems, "disk access token is not set (YANDEX_DISK_TOKEN)")
	}
	if len(c.Telegram.AdminIDs) == 0 {
		problems = append(problems, "admin IDs are not set (ADMIN_IDS, comma-separated)")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(botTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(diskTokenEnv); v != "" {
		c.Yandex.DiskToken = v
	}
	if v := os.Getenv(adminIDsEnv); v != "" {
		if ids := parseAdminIDs(v); len(ids) > 0 {
			c.Telegram.AdminIDs = ids
		}
	}
	if v := os.Getenv(clientIDEnv); v != "" {
		c.Yandex.OAuth.ClientID = v
	}
	if v := os.Getenv(clientSecretEnv); v != "" {
		c.Yandex.OAuth.ClientSecret = v
	}
	if v := os.Getenv(redirectURIEnv); v != "" {
		c.Yandex.OAuth.RedirectURI = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(tempDirEnv); v != "" {
		c.Pipeline.TempDir = v
	}
	if v := os.Getenv(whisperModelEnv); v != "" {
		c.Pipeline.WhisperModel = v
	}
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("config: skipping malformed admin id %q: %v", part, err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func defaultConfig() Config {
	return Config{
		Telegram: Telegram{PollTimeoutSecs: defaultPollWindow},
		Yandex: Yandex{
			OAuth: OAuth{RedirectURI: "https://oauth.yandex.ru/verification_code"},
		},
		Pipeline: Pipeline{
			TempDir:      defaultTempDir,
			Language:     "ru",
			WhisperModel: defaultModelSize,
			MaxListed:    20,
		},
		Sweeper: Sweeper{CronExpression: defaultSweepSpec, MaxAge: 6 * time.Hour},
		Logging: Logging{Level: "info"},
	}
}
