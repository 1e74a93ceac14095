package config

import (
	"github.com/jackzampolin/leaselens/internal/paginate"
	"github.com/jackzampolin/leaselens/internal/providers"
)

// Config holds leaselens configuration.
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Export    ExportCfg              `mapstructure:"export" yaml:"export"`
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
}

// ProviderCfg configures a model provider.
type ProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "gemini", "openai", "mock"
	Model          string `mapstructure:"model" yaml:"model"`                     // Model name
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`               // Optional endpoint override
	RateLimit      int    `mapstructure:"rate_limit" yaml:"rate_limit"`           // Requests per minute
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"` // Default provider name
}

// ExportCfg configures the PDF export geometry.
type ExportCfg struct {
	PageWidth  float64 `mapstructure:"page_width" yaml:"page_width"`   // Output page width in points
	PageHeight float64 `mapstructure:"page_height" yaml:"page_height"` // Output page height in points
	PixelWidth int     `mapstructure:"pixel_width" yaml:"pixel_width"` // Raster width pages are rendered at
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"gemini": {
				Type:      "gemini",
				Model:     providers.GeminiDefaultModel,
				APIKey:    "${GEMINI_API_KEY}",
				RateLimit: 60,
				Enabled:   true,
			},
			"openai": {
				Type:      "openai",
				Model:     providers.OpenAIDefaultModel,
				APIKey:    "${OPENAI_API_KEY}",
				RateLimit: 60,
				Enabled:   false,
			},
		},
		Defaults: DefaultsCfg{
			Provider: "gemini",
		},
		Export: ExportCfg{
			PageWidth:  paginate.A4.Width,
			PageHeight: paginate.A4.Height,
			PixelWidth: paginate.DefaultPixelWidth,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// PageSize returns the configured export page geometry.
func (c *Config) PageSize() paginate.PageSize {
	if c.Export.PageWidth <= 0 || c.Export.PageHeight <= 0 {
		return paginate.A4
	}
	return paginate.PageSize{Width: c.Export.PageWidth, Height: c.Export.PageHeight}
}
