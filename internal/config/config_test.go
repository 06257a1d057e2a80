package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "templates", cfg.Templates.Dir)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, "auto", cfg.Fill.Mode)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.VisionModel)
	assert.Empty(t, cfg.Anthropic.Key)
	assert.Equal(t, 2.0, cfg.Anthropic.RateLimitRPS)
	assert.Equal(t, "poppler", cfg.PDF.Provider)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOCREVIEW_FILL_MODE", "regex")
	t.Setenv("DOCREVIEW_ANTHROPIC_KEY", "sk-test")
	t.Setenv("DOCREVIEW_PDF_PROVIDER", "native")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "regex", cfg.Fill.Mode)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
	assert.Equal(t, "native", cfg.PDF.Provider)
}

func TestFieldModelOrDefault(t *testing.T) {
	cfg := AnthropicConfig{VisionModel: "vision-model"}
	assert.Equal(t, "vision-model", cfg.FieldModelOrDefault())

	cfg.FieldModel = "field-model"
	assert.Equal(t, "field-model", cfg.FieldModelOrDefault())
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse log level")
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
