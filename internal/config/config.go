package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Templates TemplatesConfig `yaml:"templates" mapstructure:"templates"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Fill      FillConfig      `yaml:"fill" mapstructure:"fill"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	PDF       PDFConfig       `yaml:"pdf" mapstructure:"pdf"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// TemplatesConfig locates the template catalog.
type TemplatesConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures artifact output.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// FillConfig configures normalization strategy selection.
type FillConfig struct {
	Mode string `yaml:"mode" mapstructure:"mode"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key          string  `yaml:"key" mapstructure:"key"`
	VisionModel  string  `yaml:"vision_model" mapstructure:"vision_model"`
	FieldModel   string  `yaml:"field_model" mapstructure:"field_model"`
	RateLimitRPS float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// PDFConfig configures PDF text extraction and rasterization.
type PDFConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	PdfToTextPath string `yaml:"pdftotext_path" mapstructure:"pdftotext_path"`
	PdfToPpmPath  string `yaml:"pdftoppm_path" mapstructure:"pdftoppm_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. Precedence is
// flag > env > config file > default; flag binding happens per command.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DOCREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("output.dir", "out")
	v.SetDefault("fill.mode", "auto")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.vision_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.field_model", "")
	v.SetDefault("anthropic.rate_limit_rps", 2.0)
	v.SetDefault("pdf.provider", "poppler")
	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("pdf.pdftoppm_path", "pdftoppm")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// FieldModelOrDefault returns the field-fill model, falling back to the
// vision model when unset.
func (c AnthropicConfig) FieldModelOrDefault() string {
	if c.FieldModel != "" {
		return c.FieldModel
	}
	return c.VisionModel
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
