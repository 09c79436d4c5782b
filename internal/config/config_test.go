package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	if got := getEnv("CONFIG_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("getEnv unset = %q, want fallback", got)
	}
	t.Setenv("CONFIG_TEST_SET", "value")
	if got := getEnv("CONFIG_TEST_SET", "fallback"); got != "value" {
		t.Fatalf("getEnv set = %q, want value", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	if got := getEnvInt("CONFIG_TEST_UNSET", 7); got != 7 {
		t.Fatalf("getEnvInt unset = %d, want 7", got)
	}
	t.Setenv("CONFIG_TEST_INT", "42")
	if got := getEnvInt("CONFIG_TEST_INT", 7); got != 42 {
		t.Fatalf("getEnvInt set = %d, want 42", got)
	}
	t.Setenv("CONFIG_TEST_INT", "forty-two")
	if got := getEnvInt("CONFIG_TEST_INT", 7); got != 7 {
		t.Fatalf("getEnvInt invalid = %d, want default 7", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	if got := getEnvDuration("CONFIG_TEST_UNSET", time.Minute); got != time.Minute {
		t.Fatalf("getEnvDuration unset = %s, want 1m", got)
	}
	t.Setenv("CONFIG_TEST_DUR", "90s")
	if got := getEnvDuration("CONFIG_TEST_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("getEnvDuration set = %s, want 90s", got)
	}
	t.Setenv("CONFIG_TEST_DUR", "soon")
	if got := getEnvDuration("CONFIG_TEST_DUR", time.Minute); got != time.Minute {
		t.Fatalf("getEnvDuration invalid = %s, want default 1m", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AppPort != "9000" {
		t.Fatalf("AppPort = %q, want 9000", cfg.AppPort)
	}
	if cfg.DataDir != "news_json" {
		t.Fatalf("DataDir = %q, want news_json", cfg.DataDir)
	}
	if cfg.PageLimit != 10 || cfg.PageWorkers != 3 || cfg.StaleStreak != 1 {
		t.Fatalf("crawl defaults = limit %d workers %d streak %d", cfg.PageLimit, cfg.PageWorkers, cfg.StaleStreak)
	}
	if cfg.StaleWindow != 48*time.Hour {
		t.Fatalf("StaleWindow = %s, want 48h", cfg.StaleWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8800")
	t.Setenv("NEWS_DATA_DIR", "/tmp/archive")
	t.Setenv("STALE_STREAK", "3")
	t.Setenv("RUN_TIMEOUT", "5m")
	t.Setenv("RENDER_EXTRACT_URL", "http://localhost:4000")

	cfg := Load()
	if cfg.AppPort != "8800" {
		t.Fatalf("AppPort = %q, want 8800", cfg.AppPort)
	}
	if cfg.DataDir != "/tmp/archive" {
		t.Fatalf("DataDir = %q", cfg.DataDir)
	}
	if cfg.StaleStreak != 3 {
		t.Fatalf("StaleStreak = %d, want 3", cfg.StaleStreak)
	}
	if cfg.RunTimeout != 5*time.Minute {
		t.Fatalf("RunTimeout = %s, want 5m", cfg.RunTimeout)
	}
	if cfg.RenderExtractURL != "http://localhost:4000" {
		t.Fatalf("RenderExtractURL = %q", cfg.RenderExtractURL)
	}
}
