package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/util"
)

const (
	DefaultPort = 3000
	DefaultHost = "0.0.0.0"

	// WriteTimeoutSlack is added on top of the worst-case fallback chain
	WriteTimeoutSlack = 10 * time.Second

	EnvPrefix     = "NARRADOR"
	EnvConfigFile = "NARRADOR_CONFIG_FILE"
)

// envBindings keeps the variable names the Discord bot deployment already uses
var envBindings = map[string][]string{
	"provider.api_key":    {"OPENROUTER_API_KEY"},
	"provider.model":      {"OPENROUTER_MODEL"},
	"provider.referer":    {"OPENROUTER_REFERER"},
	"provider.title":      {"OPENROUTER_TITLE"},
	"provider.base_url":   {"OPENROUTER_BASE_URL"},
	"server.port":         {"NARRADOR_SERVER_PORT", "PORT"},
	"server.admin_token":  {"NARRADOR_ADMIN_TOKEN"},
	"logging.level":       {"NARRADOR_LOG_LEVEL"},
	"logging.dir":         {"NARRADOR_LOG_DIR"},
	"logging.file_output": {"NARRADOR_FILE_OUTPUT"},
	"logging.theme":       {"NARRADOR_THEME"},
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Model:          constants.DefaultModel,
			Referer:        constants.DefaultReferer,
			Title:          constants.DefaultTitle,
			BaseURL:        constants.DefaultProviderBaseURL,
			FallbackModels: append([]string(nil), constants.DefaultFallbackModels...),
			Timeout:        constants.DefaultAttemptTimeout,
		},
		Narration: NarrationConfig{
			SystemPrompt: constants.NarratorSystemPrompt,
			Temperature:  constants.DefaultTemperature,
			MaxTokens:    constants.DefaultMaxTokens,
		},
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			ReadTimeout: 30 * time.Second,
			// a narrate call can wait on every candidate in turn
			WriteTimeout:    150 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			RequestLimits: ServerRequestLimits{
				MaxBodySize: 64 << 10,
			},
			RateLimits: ServerRateLimits{
				PerClientRequestsPerMinute: 20,
				BurstSize:                  5,
				CleanupInterval:            5 * time.Minute,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "./logs",
			Theme: "default",
		},
	}
}

// Load builds the configuration from defaults, an optional yaml file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	if configFile := os.Getenv(EnvConfigFile); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	} else if err := v.ReadInConfig(); err != nil {
		// no config file is fine, env + defaults are enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// Watch re-reads the file cfg was loaded from whenever it changes and passes
// every version that still validates to onChange. Returns false when cfg did
// not come from a file.
func Watch(cfg *Config, onChange func(*Config), onError func(error)) (bool, error) {
	if cfg == nil || cfg.Filename == "" {
		return false, nil
	}

	v, err := newViper()
	if err != nil {
		return false, err
	}
	v.SetConfigFile(cfg.Filename)
	if err := v.ReadInConfig(); err != nil {
		return false, fmt.Errorf("error reading config file %s: %w", cfg.Filename, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()
	return true, nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Filename = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", def.Provider.Model)
	v.SetDefault("provider.referer", def.Provider.Referer)
	v.SetDefault("provider.title", def.Provider.Title)
	v.SetDefault("provider.base_url", def.Provider.BaseURL)
	v.SetDefault("provider.fallback_models", def.Provider.FallbackModels)
	v.SetDefault("provider.timeout", def.Provider.Timeout)

	v.SetDefault("narration.system_prompt", def.Narration.SystemPrompt)
	v.SetDefault("narration.temperature", def.Narration.Temperature)
	v.SetDefault("narration.max_tokens", def.Narration.MaxTokens)

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)
	v.SetDefault("server.admin_token", "")
	v.SetDefault("server.read_timeout", def.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", def.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", def.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	v.SetDefault("server.request_limits.max_body_size", def.Server.RequestLimits.MaxBodySize)
	v.SetDefault("server.rate_limits.per_client_requests_per_minute", def.Server.RateLimits.PerClientRequestsPerMinute)
	v.SetDefault("server.rate_limits.burst_size", def.Server.RateLimits.BurstSize)
	v.SetDefault("server.rate_limits.cleanup_interval", def.Server.RateLimits.CleanupInterval)
	v.SetDefault("server.rate_limits.trust_proxy_headers", false)
	v.SetDefault("server.rate_limits.trusted_proxy_cidrs", []string{})

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.dir", def.Logging.Dir)
	v.SetDefault("logging.theme", def.Logging.Theme)
	v.SetDefault("logging.file_output", def.Logging.FileOutput)
}

// NarrationBudget is the longest a single narrate call can take: every
// candidate running to its attempt timeout, plus room to write the reply.
func (c *Config) NarrationBudget() time.Duration {
	candidates := time.Duration(len(c.Provider.FallbackModels) + 1)
	return candidates*c.Provider.Timeout + WriteTimeoutSlack
}

// Validate normalises model names and rejects values that would make the
// relay unusable. A missing API key is not an error here: the server still
// starts and every narrate call reports it.
func (c *Config) Validate() error {
	c.Provider.Model = strings.TrimSpace(c.Provider.Model)
	if c.Provider.Model == "" {
		return domain.NewConfigValidationError("provider.model", c.Provider.Model, "must not be empty")
	}
	c.Provider.APIKey = strings.TrimSpace(c.Provider.APIKey)

	fallbacks := make([]string, 0, len(c.Provider.FallbackModels))
	for _, m := range c.Provider.FallbackModels {
		if m = strings.TrimSpace(m); m != "" {
			fallbacks = append(fallbacks, m)
		}
	}
	c.Provider.FallbackModels = fallbacks

	if c.Provider.Timeout <= 0 {
		return domain.NewConfigValidationError("provider.timeout", c.Provider.Timeout, "must be positive")
	}
	if budget := c.NarrationBudget(); c.Server.WriteTimeout > 0 && c.Server.WriteTimeout < budget {
		c.Server.WriteTimeout = budget
	}
	if c.Narration.Temperature <= 0 || c.Narration.Temperature > 2 {
		return domain.NewConfigValidationError("narration.temperature", c.Narration.Temperature, "must be above 0 and at most 2")
	}
	if c.Narration.MaxTokens <= 0 {
		return domain.NewConfigValidationError("narration.max_tokens", c.Narration.MaxTokens, "must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return domain.NewConfigValidationError("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	if c.Server.RateLimits.PerClientRequestsPerMinute < 0 {
		return domain.NewConfigValidationError("server.rate_limits.per_client_requests_per_minute",
			c.Server.RateLimits.PerClientRequestsPerMinute, "must not be negative")
	}

	if c.Server.RateLimits.TrustProxyHeaders {
		parsed, err := util.ParseTrustedCIDRs(c.Server.RateLimits.TrustedProxyCIDRs)
		if err != nil {
			return domain.NewConfigValidationError("server.rate_limits.trusted_proxy_cidrs",
				c.Server.RateLimits.TrustedProxyCIDRs, err.Error())
		}
		c.Server.RateLimits.TrustedProxyCIDRsParsed = parsed
	}
	return nil
}
