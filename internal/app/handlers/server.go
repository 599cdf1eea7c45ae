package handlers

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/docker/go-units"

	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/router"
	"github.com/thushan/narrador/internal/util"
)

// Handler builds the full mux with routes and middleware applied
func (a *Application) Handler() http.Handler {
	mux := http.NewServeMux()

	a.registerRoutes()

	var limiter router.Middleware
	if a.rateLimiter != nil {
		limiter = a.rateLimiter.Middleware
	}
	a.routeRegistry.WireUp(mux, limiter)

	return a.requestMiddleware(mux)
}

// StartWebServer binds the listener before returning so port clashes surface
// immediately; serving continues in the background.
func (a *Application) StartWebServer() error {
	configServer := a.Config.Server

	a.logger.Info("Starting Narrador Server...", "host", configServer.Host, "port", configServer.Port,
		"read_timeout", configServer.ReadTimeout, "write_timeout", configServer.WriteTimeout)

	if configServer.RequestLimits.MaxBodySize > 0 {
		a.logger.Info("Request size limit enabled",
			"max_body_size", units.HumanSize(float64(configServer.RequestLimits.MaxBodySize)))
	}

	limits := configServer.RateLimits
	if limits.PerClientRequestsPerMinute > 0 {
		a.logger.Info("Rate limiting enabled on narrate",
			"per_client_limit", limits.PerClientRequestsPerMinute,
			"burst_size", limits.BurstSize,
			"trust_proxy", limits.TrustProxyHeaders)
	}
	if limits.TrustProxyHeaders && len(limits.TrustedProxyCIDRs) > 0 {
		a.logger.Info("Configured Trusted Proxy CIDRS", "cidrs", strings.Join(limits.TrustedProxyCIDRs, ", "))
	}

	a.server.Handler = a.Handler()

	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", "error", err)
			a.errCh <- err
		}
	}()

	a.logger.Info("Started Narrador Server", "bind", listener.Addr().String())
	return nil
}

func (a *Application) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// requestMiddleware tags each request with an id and logs it at debug
func (a *Application) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(constants.HeaderRequestID)
		if requestID == "" {
			requestID = util.GenerateRequestID()
		}
		w.Header().Set(constants.HeaderRequestID, requestID)

		a.logger.Debug("HTTP request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), requestID)))
	})
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
