package config

import (
	"fmt"
	"net"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Filename  string          `mapstructure:"-" yaml:"-"`
	Provider  ProviderConfig  `mapstructure:"provider" yaml:"provider"`
	Narration NarrationConfig `mapstructure:"narration" yaml:"narration"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
}

// ProviderConfig describes the OpenRouter account and the candidate models
type ProviderConfig struct {
	APIKey         string        `mapstructure:"api_key" yaml:"api_key"`
	Model          string        `mapstructure:"model" yaml:"model"`
	Referer        string        `mapstructure:"referer" yaml:"referer"`
	Title          string        `mapstructure:"title" yaml:"title"`
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	FallbackModels []string      `mapstructure:"fallback_models" yaml:"fallback_models"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// NarrationConfig holds the fixed prompt and sampling parameters
type NarrationConfig struct {
	SystemPrompt string  `mapstructure:"system_prompt" yaml:"system_prompt"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string              `mapstructure:"host" yaml:"host"`
	AdminToken      string              `mapstructure:"admin_token" yaml:"admin_token"`
	RateLimits      ServerRateLimits    `mapstructure:"rate_limits" yaml:"rate_limits"`
	RequestLimits   ServerRequestLimits `mapstructure:"request_limits" yaml:"request_limits"`
	Port            int                 `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration       `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration       `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration       `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration       `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// GetAddress returns the server address in host:port format
func (s *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ServerRequestLimits struct {
	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// ServerRateLimits applies to the narrate route only; every call there can
// cost up to one provider request per candidate.
type ServerRateLimits struct {
	TrustedProxyCIDRs          []string      `mapstructure:"trusted_proxy_cidrs" yaml:"trusted_proxy_cidrs"`
	TrustedProxyCIDRsParsed    []*net.IPNet  `mapstructure:"-" yaml:"-"`
	PerClientRequestsPerMinute int           `mapstructure:"per_client_requests_per_minute" yaml:"per_client_requests_per_minute"`
	BurstSize                  int           `mapstructure:"burst_size" yaml:"burst_size"`
	CleanupInterval            time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
	TrustProxyHeaders          bool          `mapstructure:"trust_proxy_headers" yaml:"trust_proxy_headers"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
	Theme      string `mapstructure:"theme" yaml:"theme"`
	FileOutput bool   `mapstructure:"file_output" yaml:"file_output"`
}
