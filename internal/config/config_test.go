package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OCR_ENGINE", "stub")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, []time.Duration{0, 60 * time.Second, 180 * time.Second}, cfg.RetryDelays)
	assert.Equal(t, 200, cfg.ConversionDPI)
	assert.Equal(t, 100, cfg.FallbackDPI)
	assert.Equal(t, 20, cfg.MaxConsecutiveRepeats)
	assert.Equal(t, 8024, cfg.MaxOutputTokens)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	t.Setenv("OCR_ENGINE", "tesseract")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown OCR_ENGINE")
}

func TestLoadGeminiRequiresAPIKey(t *testing.T) {
	t.Setenv("OCR_ENGINE", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLoadParsesDelaySchedule(t *testing.T) {
	t.Setenv("OCR_ENGINE", "stub")
	t.Setenv("OCR_RETRY_DELAYS", "0, 30, 90")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{0, 30 * time.Second, 90 * time.Second}, cfg.RetryDelays)
}

func TestLoadRejectsMalformedDelays(t *testing.T) {
	t.Setenv("OCR_ENGINE", "stub")
	t.Setenv("OCR_RETRY_DELAYS", "0,abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCR_RETRY_DELAYS")
}

func TestLoadWithOverrides(t *testing.T) {
	t.Setenv("OCR_ENGINE", "gemini")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadWithOverrides(func(c *Config) {
		c.Engine = "stub"
		c.MaxConcurrency = 4
	})
	require.NoError(t, err)
	assert.Equal(t, "stub", cfg.Engine)
	assert.Equal(t, 4, cfg.MaxConcurrency)
}
