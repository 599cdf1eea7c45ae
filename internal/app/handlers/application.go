package handlers

import (
	"net/http"
	"time"

	"github.com/thushan/narrador/internal/adapter/security"
	"github.com/thushan/narrador/internal/config"
	"github.com/thushan/narrador/internal/core/ports"
	"github.com/thushan/narrador/internal/logger"
	"github.com/thushan/narrador/internal/router"
)

// Application holds all the dependencies needed for the HTTP handlers
type Application struct {
	StartTime      time.Time
	Config         *config.Config
	logger         logger.StyledLogger
	narrator       ports.Narrator
	statsCollector ports.StatsCollector
	rateLimiter    *security.RateLimiter
	routeRegistry  *router.RouteRegistry
	server         *http.Server
	errCh          chan error
}

func NewApplication(
	cfg *config.Config,
	narrator ports.Narrator,
	statsCollector ports.StatsCollector,
	rateLimiter *security.RateLimiter,
	logger logger.StyledLogger,
) *Application {
	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:         cfg,
		logger:         logger,
		narrator:       narrator,
		statsCollector: statsCollector,
		rateLimiter:    rateLimiter,
		routeRegistry:  router.NewRouteRegistry(logger),
		server:         server,
		errCh:          make(chan error, 1),
		StartTime:      time.Now(),
	}
}

// Errors reports listener failures after Start has returned
func (a *Application) Errors() <-chan error {
	return a.errCh
}
