package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every override so ambient shell state cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, botTokenEnv, diskTokenEnv, adminIDsEnv,
		clientIDEnv, clientSecretEnv, redirectURIEnv,
		databaseDSNEnv, tempDirEnv, whisperModelEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Pipeline.TempDir != "temp" {
		t.Errorf("TempDir = %q", cfg.Pipeline.TempDir)
	}
	if cfg.Pipeline.Language != "ru" {
		t.Errorf("Language = %q", cfg.Pipeline.Language)
	}
	if cfg.Pipeline.WhisperModel != "base" {
		t.Errorf("WhisperModel = %q", cfg.Pipeline.WhisperModel)
	}
	if cfg.Telegram.PollTimeoutSecs != 30 {
		t.Errorf("PollTimeoutSecs = %d", cfg.Telegram.PollTimeoutSecs)
	}
	if cfg.Sweeper.CronExpression != "@hourly" || cfg.Sweeper.MaxAge != 6*time.Hour {
		t.Errorf("unexpected sweeper defaults: %+v", cfg.Sweeper)
	}
}

func TestLoadReadsYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
telegram:
  botToken: file-token
  adminIds: [11, 22]
pipeline:
  tempDir: /var/tmp/bot
  language: en
sweeper:
  cronExpression: "@every 30m"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Telegram.BotToken != "file-token" {
		t.Errorf("BotToken = %q", cfg.Telegram.BotToken)
	}
	if len(cfg.Telegram.AdminIDs) != 2 || cfg.Telegram.AdminIDs[1] != 22 {
		t.Errorf("AdminIDs = %v", cfg.Telegram.AdminIDs)
	}
	if cfg.Pipeline.TempDir != "/var/tmp/bot" || cfg.Pipeline.Language != "en" {
		t.Errorf("unexpected pipeline section: %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.WhisperModel != "base" {
		t.Errorf("unset fields must keep defaults, got %q", cfg.Pipeline.WhisperModel)
	}
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("telegram:\n  botToken: file-token\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(botTokenEnv, "env-token")
	t.Setenv(diskTokenEnv, "disk-token")
	t.Setenv(adminIDsEnv, "100, 200,bogus,300")
	t.Setenv(whisperModelEnv, "large")

	cfg := Load()

	if cfg.Telegram.BotToken != "env-token" {
		t.Errorf("BotToken = %q, env must win", cfg.Telegram.BotToken)
	}
	if cfg.Yandex.DiskToken != "disk-token" {
		t.Errorf("DiskToken = %q", cfg.Yandex.DiskToken)
	}
	want := []int64{100, 200, 300}
	if len(cfg.Telegram.AdminIDs) != len(want) {
		t.Fatalf("AdminIDs = %v, want %v", cfg.Telegram.AdminIDs, want)
	}
	for i, id := range want {
		if cfg.Telegram.AdminIDs[i] != id {
			t.Errorf("AdminIDs[%d] = %d, want %d", i, cfg.Telegram.AdminIDs[i], id)
		}
	}
	if cfg.Pipeline.WhisperModel != "large" {
		t.Errorf("WhisperModel = %q", cfg.Pipeline.WhisperModel)
	}
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("telegram: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()
	if cfg.Pipeline.TempDir != "temp" {
		t.Errorf("malformed file must fall back to defaults, got %+v", cfg.Pipeline)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := defaultConfig()
	valid.Telegram.BotToken = "t"
	valid.Yandex.DiskToken = "d"
	valid.Telegram.AdminIDs = []int64{1}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	if err := defaultConfig().Validate(); err == nil {
		t.Error("empty config must not validate")
	}

	noAdmins := valid
	noAdmins.Telegram.AdminIDs = nil
	if err := noAdmins.Validate(); err == nil {
		t.Error("config without admins must not validate")
	}
}

func TestParseAdminIDs(t *testing.T) {
	t.Parallel()

	if got := parseAdminIDs(""); got != nil {
		t.Errorf("parseAdminIDs(\"\") = %v", got)
	}
	got := parseAdminIDs(" 1 ,2,, x ,3")
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("parseAdminIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("id %d = %d, want %d", i, got[i], want[i])
		}
	}
}
