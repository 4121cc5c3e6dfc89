package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"FRESHGUARD_API_URL",
	"API_KEY",
	"HTTP_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"S3_ENABLED",
	"S3_BUCKET",
	"S3_REGION",
	"S3_PREFIX",
}

// setEnv blanks every config variable, then applies vars for the test.
func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Success with defaults",
			envVars:     map[string]string{},
			expectError: false,
		},
		{
			name: "Success with all config specified",
			envVars: map[string]string{
				"FRESHGUARD_API_URL": "https://inventory.example.com/api",
				"API_KEY":            "test-key-123",
				"HTTP_TIMEOUT":       "15",
				"LOG_LEVEL":          "debug",
				"LOG_FORMAT":         "json",
				"S3_ENABLED":         "true",
				"S3_BUCKET":          "pantry",
				"S3_REGION":          "eu-west-1",
				"S3_PREFIX":          "imports/",
			},
			expectError: false,
		},
		{
			name: "Error - relative API URL",
			envVars: map[string]string{
				"FRESHGUARD_API_URL": "/api",
			},
			expectError: true,
			errorMsg:    "invalid API base URL",
		},
		{
			name: "Error - negative timeout",
			envVars: map[string]string{
				"HTTP_TIMEOUT": "-1",
			},
			expectError: true,
			errorMsg:    "invalid HTTP timeout",
		},
		{
			name: "Error - invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "invalid",
			},
			expectError: true,
			errorMsg:    "invalid log level",
		},
		{
			name: "Error - invalid log format",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
			},
			expectError: true,
			errorMsg:    "invalid log format",
		},
		{
			name: "Error - S3 enabled without bucket",
			envVars: map[string]string{
				"S3_ENABLED": "true",
			},
			expectError: true,
			errorMsg:    "S3 bucket is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.envVars)

			cfg, err := Load()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Empty(t, cfg.API.APIKey)
	assert.Equal(t, time.Duration(0), cfg.API.TimeoutDuration())
	assert.Equal(t, LoggerConfig{Level: "warn", Format: "console"}, cfg.Logger)
	assert.Equal(t, S3Config{Enabled: false, Region: "us-east-1", Prefix: "seed/"}, cfg.S3)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:    APIConfig{BaseURL: "http://localhost:8080/api"},
			Logger: LoggerConfig{Level: "info", Format: "json"},
			S3:     S3Config{Region: "us-east-1"},
		}
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "Valid configuration",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "Invalid - empty base URL",
			mutate:      func(c *Config) { c.API.BaseURL = "" },
			expectError: true,
			errorMsg:    "API base URL is required",
		},
		{
			name:        "Invalid - unsupported scheme",
			mutate:      func(c *Config) { c.API.BaseURL = "ftp://example.com/api" },
			expectError: true,
			errorMsg:    "invalid API base URL",
		},
		{
			name: "Invalid - S3 region missing",
			mutate: func(c *Config) {
				c.S3 = S3Config{Enabled: true, Bucket: "pantry"}
			},
			expectError: true,
			errorMsg:    "S3 region is required",
		},
		{
			name: "Valid - S3 enabled",
			mutate: func(c *Config) {
				c.S3 = S3Config{Enabled: true, Bucket: "pantry", Region: "eu-west-1"}
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAPIConfig_TimeoutDuration(t *testing.T) {
	cfg := APIConfig{Timeout: 30}
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Warn().Str("component", "test").Msg("shown")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Contains(t, buf.String(), `"message":"shown"`)
	assert.Contains(t, buf.String(), `"app":"freshguard"`)
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{level: "debug", expected: zerolog.DebugLevel},
		{level: "info", expected: zerolog.InfoLevel},
		{level: "warn", expected: zerolog.WarnLevel},
		{level: "error", expected: zerolog.ErrorLevel},
		{level: "", expected: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(LoggerConfig{Level: tt.level, Format: "console"}, &bytes.Buffer{})
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT_VAR", "default"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 10))

	t.Setenv("TEST_INVALID", "not_a_number")
	assert.Equal(t, 10, getEnvAsInt("TEST_INVALID", 10))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL_INVALID", "maybe")
	assert.False(t, getEnvAsBool("TEST_BOOL_INVALID", false))
}
