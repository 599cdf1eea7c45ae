package handlers

import "net/http"

func (a *Application) registerRoutes() {
	// keep-alive probes from the hosting platform hit "/" and expect "ok"
	a.routeRegistry.Register("/", a.keepAliveHandler, "Keep-alive probe")
	a.routeRegistry.Register("/health", a.healthHandler, "Health check endpoint")
	a.routeRegistry.Register("/version", a.versionHandler, "Narrador version information")

	a.routeRegistry.Register("/api/ping", a.pingHandler, "Latency probe")
	a.routeRegistry.Register("/api/status", a.statusHandler, "Uptime, model and per-model stats")
	a.routeRegistry.RegisterLimited("/api/narrate", a.narrateHandler, "Narrate with model fallback", http.MethodPost)

	a.routeRegistry.Register("/api/config/model", a.getModelHandler, "Current model and fallbacks")
	a.routeRegistry.RegisterWithMethod("/api/config/model", a.setModelHandler, "Change current model (admin)", http.MethodPut)
}
