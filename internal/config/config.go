package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL  string
	HTTPAddr     string
	JWTSecret    string
	Location     *time.Location
	LogLevel     string
	Env          string // dev|prod
	SentryDSN    string
	RedisAddr    string // opcional; sin Redis la sincronización queda en memoria
	RedisPass    string
	PollInterval time.Duration
	TokenTTL     time.Duration
	BotToken     string // opcional, avisos de retiro por Telegram
	NotifyChatID int64
}

func Load() (*Config, error) {
	tz := getenv("TZ", "America/Santiago")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	chatID, err := parseInt64(os.Getenv("NOTIFY_CHAT_ID"))
	if err != nil {
		return nil, fmt.Errorf("NOTIFY_CHAT_ID: %w", err)
	}

	poll, err := parsePositiveDuration(getenv("SYNC_POLL_INTERVAL", "2s"))
	if err != nil {
		return nil, fmt.Errorf("SYNC_POLL_INTERVAL: %w", err)
	}

	cfg := &Config{
		DatabaseURL:  mustEnv("DATABASE_URL"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		JWTSecret:    mustEnv("JWT_SECRET"),
		Location:     loc,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		Env:          getenv("ENV", "dev"),
		SentryDSN:    os.Getenv("SENTRY_DSN"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		PollInterval: poll,
		TokenTTL:     12 * time.Hour,
		BotToken:     os.Getenv("BOT_TOKEN"),
		NotifyChatID: chatID,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseInt64(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}
