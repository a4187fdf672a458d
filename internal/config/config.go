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
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Scan      ScanConfig      `yaml:"scan" mapstructure:"scan"`
	Delivery  DeliveryConfig  `yaml:"delivery" mapstructure:"delivery"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ScanConfig configures the scan pipeline.
type ScanConfig struct {
	MaxPages           int     `yaml:"max_pages" mapstructure:"max_pages"`
	MaxOpportunities   int     `yaml:"max_opportunities" mapstructure:"max_opportunities"`
	SitemapTimeoutSecs int     `yaml:"sitemap_timeout_secs" mapstructure:"sitemap_timeout_secs"`
	FetchTimeoutSecs   int     `yaml:"fetch_timeout_secs" mapstructure:"fetch_timeout_secs"`
	ContentBudget      int     `yaml:"content_budget" mapstructure:"content_budget"`
	FetchRatePerSec    float64 `yaml:"fetch_rate_per_sec" mapstructure:"fetch_rate_per_sec"`
}

// DeliveryConfig configures report delivery.
type DeliveryConfig struct {
	ResendKey     string `yaml:"resend_key" mapstructure:"resend_key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	FromAddress   string `yaml:"from_address" mapstructure:"from_address"`
	InternalEmail string `yaml:"internal_email" mapstructure:"internal_email"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default to empty so AutomaticEnv values reach
	// Unmarshal; viper only surfaces env vars for registered keys.
	v.SetDefault("anthropic.key", "")
	v.SetDefault("delivery.resend_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("scan.max_pages", 8)
	v.SetDefault("scan.max_opportunities", 3)
	v.SetDefault("scan.sitemap_timeout_secs", 5)
	v.SetDefault("scan.fetch_timeout_secs", 10)
	v.SetDefault("scan.content_budget", 4000)
	v.SetDefault("scan.fetch_rate_per_sec", 4)
	v.SetDefault("delivery.base_url", "https://api.resend.com")
	v.SetDefault("delivery.from_address", "reports@sellsadvisors.com")
	v.SetDefault("delivery.internal_email", "scans@sellsadvisors.com")

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
