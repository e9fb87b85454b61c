package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"imgfetch/internal/downloader"
)

type Config struct {
	ApiURL     string
	AccessKey  string
	SecretKey  string
	BucketName string
	Region     string

	LogLevel slog.Level

	UserAgent           string
	ConnectTimeout      time.Duration
	ReadTimeout         time.Duration
	AllowedSchemes      []string
	AllowedContentTypes []string

	BatchParallel int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using environment variables only")
	}

	defaults := downloader.DefaultConfig()

	config := &Config{
		ApiURL:     getEnv("API_URL", ""),
		AccessKey:  getEnv("ACCESS_KEY", ""),
		SecretKey:  getEnv("SECRET_KEY", ""),
		BucketName: getEnv("BUCKET_NAME", ""),
		Region:     getEnv("REGION", ""),

		LogLevel: getLevelEnv("LOG_LEVEL", slog.LevelInfo),

		UserAgent:           getEnv("DOWNLOADER_USER_AGENT", defaults.UserAgent),
		ConnectTimeout:      getDurationEnv("DOWNLOADER_CONNECT_TIMEOUT", defaults.ConnectTimeout),
		ReadTimeout:         getDurationEnv("DOWNLOADER_READ_TIMEOUT", defaults.ReadTimeout),
		AllowedSchemes:      getListEnv("DOWNLOADER_ALLOWED_SCHEMES", defaults.AllowedSchemes),
		AllowedContentTypes: getListEnv("DOWNLOADER_ALLOWED_CONTENT_TYPES", defaults.AllowedContentTypes),

		BatchParallel: getIntEnv("BATCH_PARALLEL", 4),
	}

	return config, nil
}

// Downloader returns the downloader settings carried by the configuration.
func (c *Config) Downloader() downloader.Config {
	return downloader.Config{
		UserAgent:           c.UserAgent,
		ConnectTimeout:      c.ConnectTimeout,
		ReadTimeout:         c.ReadTimeout,
		AllowedSchemes:      c.AllowedSchemes,
		AllowedContentTypes: c.AllowedContentTypes,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("1500ms", "2s") and plain milliseconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Warn("Invalid number, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

func getLevelEnv(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		slog.Warn("Invalid log level, using default", "key", key, "value", value)
		return defaultValue
	}
	return level
}
