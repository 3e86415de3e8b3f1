package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Brand         string
	Timezone      string // display label only, never used in date arithmetic
	BindAddress   string
	StoragePath   string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	FromAddress   string
	NotifyAddress string
	LogLevel      string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Brand:         getenvDefault("BKS_BRAND", "ClearView Exterior Washing"),
		Timezone:      getenvDefault("BKS_TIMEZONE", "America/Los_Angeles"),
		BindAddress:   getenvDefault("BKS_BIND_ADDRESS", "127.0.0.1:8080"),
		StoragePath:   getenvDefault("BKS_STORAGE_PATH", "bookings.db"),
		SMTPHost:      strings.TrimSpace(os.Getenv("BKS_SMTP_HOST")),
		SMTPPort:      getenvInt("BKS_SMTP_PORT", 587),
		SMTPUsername:  strings.TrimSpace(os.Getenv("BKS_SMTP_USER")),
		SMTPPassword:  os.Getenv("BKS_SMTP_PASS"),
		FromAddress:   strings.TrimSpace(os.Getenv("BKS_FROM_ADDRESS")),
		NotifyAddress: strings.TrimSpace(os.Getenv("BKS_NOTIFY_ADDRESS")),
		LogLevel:      getenvDefault("BKS_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Brand == "" {
		return errors.New("brand is required")
	}
	if c.BindAddress == "" {
		return errors.New("bind address is required")
	}
	if c.StoragePath == "" {
		return errors.New("storage path is required")
	}
	if c.SMTPHost == "" {
		return errors.New("BKS_SMTP_HOST is required")
	}
	if c.SMTPPort <= 0 {
		return errors.New("smtp port must be > 0")
	}
	if c.FromAddress == "" {
		return errors.New("BKS_FROM_ADDRESS is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
