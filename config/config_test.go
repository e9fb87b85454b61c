package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"imgfetch/internal/downloader"
)

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test_value")
	defer os.Unsetenv("TEST_VAR")

	result := getEnv("TEST_VAR", "default_value")
	if result != "test_value" {
		t.Errorf("getEnv() = %s, want %s", result, "test_value")
	}

	result = getEnv("NON_EXISTENT_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}

	os.Setenv("EMPTY_VAR", "")
	defer os.Unsetenv("EMPTY_VAR")

	result = getEnv("EMPTY_VAR", "default_value")
	if result != "default_value" {
		t.Errorf("getEnv() = %s, want %s", result, "default_value")
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", 3 * time.Second},
		{"milliseconds", "1500", 1500 * time.Millisecond},
		{"go duration", "2s", 2 * time.Second},
		{"garbage", "soon", 3 * time.Second},
		{"negative", "-1s", 3 * time.Second},
		{"zero", "0", 3 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.want, getDurationEnv("TEST_DURATION", 3*time.Second))
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("TEST_INT", "8")
	assert.Equal(t, 8, getIntEnv("TEST_INT", 4))

	t.Setenv("TEST_INT", "many")
	assert.Equal(t, 4, getIntEnv("TEST_INT", 4))

	t.Setenv("TEST_INT", "-2")
	assert.Equal(t, 4, getIntEnv("TEST_INT", 4))
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("TEST_LIST", " image/png , image/gif,,")
	assert.Equal(t, []string{"image/png", "image/gif"}, getListEnv("TEST_LIST", []string{"x"}))

	t.Setenv("TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, getListEnv("TEST_LIST", []string{"x"}))
}

func TestGetLevelEnv(t *testing.T) {
	t.Setenv("TEST_LEVEL", "debug")
	assert.Equal(t, slog.LevelDebug, getLevelEnv("TEST_LEVEL", slog.LevelInfo))

	t.Setenv("TEST_LEVEL", "loud")
	assert.Equal(t, slog.LevelInfo, getLevelEnv("TEST_LEVEL", slog.LevelInfo))
}

func TestLoad(t *testing.T) {
	testVars := map[string]string{
		"API_URL":                          "https://test-api.example.com",
		"ACCESS_KEY":                       "test-access-key",
		"SECRET_KEY":                       "test-secret-key",
		"BUCKET_NAME":                      "test-bucket",
		"REGION":                           "test-region",
		"LOG_LEVEL":                        "warn",
		"DOWNLOADER_USER_AGENT":            "imgfetch/1.0",
		"DOWNLOADER_CONNECT_TIMEOUT":       "250ms",
		"DOWNLOADER_READ_TIMEOUT":          "750",
		"DOWNLOADER_ALLOWED_SCHEMES":       "http,https",
		"DOWNLOADER_ALLOWED_CONTENT_TYPES": "image/png",
		"BATCH_PARALLEL":                   "2",
	}

	for key, value := range testVars {
		t.Setenv(key, value)
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.ApiURL != testVars["API_URL"] {
		t.Errorf("config.ApiURL = %s, want %s", config.ApiURL, testVars["API_URL"])
	}

	if config.BucketName != testVars["BUCKET_NAME"] {
		t.Errorf("config.BucketName = %s, want %s", config.BucketName, testVars["BUCKET_NAME"])
	}

	assert.Equal(t, "test-access-key", config.AccessKey)
	assert.Equal(t, "test-secret-key", config.SecretKey)
	assert.Equal(t, "test-region", config.Region)
	assert.Equal(t, slog.LevelWarn, config.LogLevel)
	assert.Equal(t, 2, config.BatchParallel)

	assert.Equal(t, downloader.Config{
		UserAgent:           "imgfetch/1.0",
		ConnectTimeout:      250 * time.Millisecond,
		ReadTimeout:         750 * time.Millisecond,
		AllowedSchemes:      []string{"http", "https"},
		AllowedContentTypes: []string{"image/png"},
	}, config.Downloader())
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"API_URL", "ACCESS_KEY", "SECRET_KEY", "BUCKET_NAME", "REGION", "LOG_LEVEL",
		"DOWNLOADER_USER_AGENT", "DOWNLOADER_CONNECT_TIMEOUT", "DOWNLOADER_READ_TIMEOUT",
		"DOWNLOADER_ALLOWED_SCHEMES", "DOWNLOADER_ALLOWED_CONTENT_TYPES", "BATCH_PARALLEL",
	} {
		t.Setenv(key, "")
	}

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.ApiURL != "" {
		t.Errorf("config.ApiURL = %s, want %s", config.ApiURL, "")
	}

	if config.BucketName != "" {
		t.Errorf("config.BucketName = %s, want %s", config.BucketName, "")
	}

	assert.Equal(t, slog.LevelInfo, config.LogLevel)
	assert.Equal(t, 4, config.BatchParallel)
	assert.Equal(t, downloader.DefaultConfig(), config.Downloader())
}
