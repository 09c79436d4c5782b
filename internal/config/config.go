package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppPort string

	DataDir string

	KeywordURL      string
	KeywordFallback string
	MinKeywords     int

	PageWorkers   int
	PageLimit     int
	StaleWindow   time.Duration
	StaleStreak   int
	PageDelay     time.Duration
	FetchTimeout  time.Duration
	RunTimeout    time.Duration

	CronSpec string

	PostgresDSN      string // optional mirror; empty disables
	RedisAddr        string // optional API cache; empty disables
	RenderExtractURL string // optional render sidecar; empty disables

	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	cfg := &Config{
		AppPort: getEnv("APP_PORT", "9000"),

		DataDir: getEnv("NEWS_DATA_DIR", "news_json"),

		KeywordURL:      getEnv("KEYWORD_URL", ""),
		KeywordFallback: getEnv("KEYWORD_FALLBACK", "News_keyword.json"),
		MinKeywords:     getEnvInt("MIN_KEYWORDS_REQUIRED", 1),

		PageWorkers:  getEnvInt("PAGE_WORKERS", 3),
		PageLimit:    getEnvInt("PAGE_LIMIT", 10),
		StaleWindow:  getEnvDuration("STALE_WINDOW", 48*time.Hour),
		StaleStreak:  getEnvInt("STALE_STREAK", 1),
		PageDelay:    getEnvDuration("PAGE_DELAY", 2*time.Second),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		RunTimeout:   getEnvDuration("RUN_TIMEOUT", 20*time.Minute),

		CronSpec: getEnv("CRON_SPEC", "*/30 * * * *"),

		PostgresDSN:      getEnv("POSTGRES_DSN", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RenderExtractURL: getEnv("RENDER_EXTRACT_URL", ""),

		BasicAuthUser: getEnv("APP_BASIC_USER", ""),
		BasicAuthPass: getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s data=%s cron=%s workers=%d", cfg.AppPort, cfg.DataDir, cfg.CronSpec, cfg.PageWorkers)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("warn: %s=%q is not an int, using %d", key, v, def)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("warn: %s=%q is not a duration, using %s", key, v, def)
	}
	return def
}
