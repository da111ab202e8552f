package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"docpipe/internal/logger"
)

type Config struct {
	// Remote OCR engine configuration
	Engine         string // gemini, vision, documentai, stub
	GeminiAPIKey   string
	GeminiModel    string
	OpenAIAPIKey   string
	ClassifyModel  string

	// Google Cloud Configuration (vision and documentai engines)
	GoogleCloudProject    string
	GoogleCloudLocation   string
	DocumentAIProcessorID string

	// Extraction configuration
	MaxConcurrency        int
	Retries               int
	RetryDelays           []time.Duration
	ConversionDPI         int
	FallbackDPI           int
	MaxConsecutiveRepeats int
	MaxOutputTokens       int
	RequestsPerMinute     int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides loads the configuration from the environment, applies
// overrides (typically CLI flags) before validation, and validates.
func LoadWithOverrides(overrides func(*Config)) (*Config, error) {
	config := &Config{
		Engine:                getEnv("OCR_ENGINE", "gemini"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		ClassifyModel:         getEnv("CLASSIFY_MODEL", "gpt-4o"),
		GoogleCloudProject:    getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:   getEnv("GOOGLE_CLOUD_LOCATION", "us"),
		DocumentAIProcessorID: getEnv("DOCUMENT_AI_PROCESSOR_ID", ""),
		MaxConcurrency:        getEnvInt("MAX_CONCURRENCY", 8),
		Retries:               getEnvInt("OCR_RETRIES", 3),
		ConversionDPI:         getEnvInt("CONVERSION_DPI", 200),
		FallbackDPI:           getEnvInt("FALLBACK_DPI", 100),
		MaxConsecutiveRepeats: getEnvInt("MAX_CONSECUTIVE_REPEATS", 20),
		MaxOutputTokens:       getEnvInt("MAX_OUTPUT_TOKENS", 8024),
		RequestsPerMinute:     getEnvInt("REQUESTS_PER_MINUTE", 60),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:         getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:             getEnv("LOG_OUTPUT", "stderr"),
	}

	delays, err := parseDelays(getEnv("OCR_RETRY_DELAYS", "0,60,180"))
	if err != nil {
		return nil, fmt.Errorf("invalid OCR_RETRY_DELAYS: %w", err)
	}
	config.RetryDelays = delays

	if overrides != nil {
		overrides(config)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Engine {
	case "gemini", "vision", "documentai", "stub":
	default:
		return fmt.Errorf("unknown OCR_ENGINE %q (expected gemini, vision, documentai or stub)", c.Engine)
	}
	if c.Engine == "gemini" && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required for the gemini engine")
	}
	if c.Engine == "documentai" && c.DocumentAIProcessorID == "" {
		return fmt.Errorf("DOCUMENT_AI_PROCESSOR_ID is required for the documentai engine")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("MAX_CONCURRENCY must be at least 1")
	}
	if c.Retries < 1 {
		return fmt.Errorf("OCR_RETRIES must be at least 1")
	}
	if c.ConversionDPI < 1 || c.FallbackDPI < 1 {
		return fmt.Errorf("CONVERSION_DPI and FALLBACK_DPI must be positive")
	}
	if c.MaxConsecutiveRepeats < 1 {
		return fmt.Errorf("MAX_CONSECUTIVE_REPEATS must be at least 1")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// parseDelays parses a comma-separated list of delays in seconds, e.g. "0,60,180".
func parseDelays(s string) ([]time.Duration, error) {
	parts := strings.Split(s, ",")
	delays := make([]time.Duration, 0, len(parts))
	for _, p := range parts {
		secs, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		if secs < 0 {
			return nil, fmt.Errorf("negative delay %d", secs)
		}
		delays = append(delays, time.Duration(secs)*time.Second)
	}
	if len(delays) == 0 {
		return nil, fmt.Errorf("empty delay schedule")
	}
	return delays, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
