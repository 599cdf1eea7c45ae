package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/thushan/narrador/internal/adapter/narrator"
	"github.com/thushan/narrador/internal/adapter/openrouter"
	"github.com/thushan/narrador/internal/adapter/security"
	"github.com/thushan/narrador/internal/adapter/stats"
	"github.com/thushan/narrador/internal/app/handlers"
	"github.com/thushan/narrador/internal/config"
	"github.com/thushan/narrador/internal/core/ports"
	"github.com/thushan/narrador/internal/logger"
)

// Application owns the long-running pieces: the HTTP surface, the rate
// limiter's sweeper and the narrator they share.
type Application struct {
	startTime   time.Time
	config      *config.Config
	logger      logger.StyledLogger
	narrator    *narrator.Service
	stats       *stats.Collector
	rateLimiter *security.RateLimiter
	http        *handlers.Application

	// last model read from the config file, so admin overrides survive
	// unrelated file edits
	fileModel string
	reloadMu  sync.Mutex
}

func New(startTime time.Time, cfg *config.Config, log logger.StyledLogger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	collector := stats.NewCollector(log)
	svc := NewNarrator(cfg, collector, log)
	limiter := security.NewRateLimiter(cfg.Server.RateLimits, collector, log)

	httpApp := handlers.NewApplication(cfg, svc, collector, limiter, log)
	httpApp.StartTime = startTime

	return &Application{
		startTime:   startTime,
		config:      cfg,
		logger:      log,
		narrator:    svc,
		stats:       collector,
		rateLimiter: limiter,
		http:        httpApp,
		fileModel:   cfg.Provider.Model,
	}, nil
}

// NewNarrator wires the OpenRouter transport into the fallback orchestrator.
// The CLI uses it directly for one-shot narrations.
func NewNarrator(cfg *config.Config, recorder ports.NarrationRecorder, log logger.StyledLogger) *narrator.Service {
	client := openrouter.NewClient(openrouter.Config{
		BaseURL: cfg.Provider.BaseURL,
		Referer: cfg.Provider.Referer,
		Title:   cfg.Provider.Title,
		Timeout: cfg.Provider.Timeout,
	}, log)

	return narrator.NewService(narrator.Config{
		Credential:     cfg.Provider.APIKey,
		SystemPrompt:   cfg.Narration.SystemPrompt,
		FallbackModels: cfg.Provider.FallbackModels,
		Temperature:    cfg.Narration.Temperature,
		MaxTokens:      cfg.Narration.MaxTokens,
	}, narrator.NewModelSelection(cfg.Provider.Model), client, recorder, log)
}

func (a *Application) Start(ctx context.Context) error {
	if a.config.Provider.APIKey == "" {
		a.logger.Warn("OPENROUTER_API_KEY is not set, narrate calls will be refused")
	}
	a.logger.InfoWithModel("Current model", a.narrator.Model())
	a.logger.InfoWithCount("Fallback models", len(a.narrator.FallbackModels()),
		"order", a.narrator.Candidates())

	if err := a.http.StartWebServer(); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}

	watching, err := config.Watch(a.config, a.ApplyConfig, func(err error) {
		a.logger.Warn("Ignoring invalid configuration change", "error", err)
	})
	if err != nil {
		a.logger.Warn("Configuration file watch unavailable", "error", err)
	} else if watching {
		a.logger.Info("Watching configuration file", "file", a.config.Filename)
	}

	go func() {
		select {
		case err := <-a.http.Errors():
			a.logger.Error("Server error", "error", err)
		case <-ctx.Done():
		}
	}()

	return nil
}

func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	a.rateLimiter.Stop()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	n := a.stats.GetNarrationStats()
	a.logger.Info("Narration summary",
		"total", n.Total,
		"succeeded", n.Succeeded,
		"exhausted", n.Exhausted,
		"attempts", n.Attempts,
		"rate_limited", n.RateLimited)
	return nil
}

// ApplyConfig takes a reloaded configuration. Only a changed provider.model is
// applied live, everything else is read once at start-up.
func (a *Application) ApplyConfig(next *config.Config) {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	if next.Provider.Model == a.fileModel {
		return
	}
	a.fileModel = next.Provider.Model
	if _, err := a.narrator.SetModel(next.Provider.Model); err != nil {
		a.logger.Warn("Ignoring model from configuration file", "error", err)
	}
}

func (a *Application) Narrator() *narrator.Service {
	return a.narrator
}
