package router

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/pterm/pterm"

	"github.com/thushan/narrador/internal/logger"
)

type Middleware func(http.Handler) http.Handler

type RouteInfo struct {
	Handler     http.Handler
	Path        string
	Description string
	Method      string
	Order       int
	Limited     bool
}

// RouteRegistry collects routes before they reach the mux so they can be
// printed once at start-up and share middleware decisions.
type RouteRegistry struct {
	routes   map[string]RouteInfo
	logger   logger.StyledLogger
	orderSeq int
}

func NewRouteRegistry(logger logger.StyledLogger) *RouteRegistry {
	return &RouteRegistry{
		routes: make(map[string]RouteInfo),
		logger: logger,
	}
}

func (r *RouteRegistry) Register(path string, handler http.HandlerFunc, description string) {
	r.RegisterWithMethod(path, handler, description, http.MethodGet)
}

func (r *RouteRegistry) RegisterWithMethod(path string, handler http.HandlerFunc, description, method string) {
	r.register(path, handler, description, method, false)
}

// RegisterLimited registers a route that gets the rate limiter applied at
// wire-up time.
func (r *RouteRegistry) RegisterLimited(path string, handler http.HandlerFunc, description, method string) {
	r.register(path, handler, description, method, true)
}

func (r *RouteRegistry) register(path string, handler http.HandlerFunc, description, method string, limited bool) {
	r.routes[pattern(method, path)] = RouteInfo{
		Handler:     handler,
		Path:        path,
		Description: description,
		Method:      method,
		Order:       r.orderSeq,
		Limited:     limited,
	}
	r.orderSeq++
}

// WireUp mounts every route on mux. The limiter, when present, only wraps
// routes registered through RegisterLimited.
func (r *RouteRegistry) WireUp(mux *http.ServeMux, limiter Middleware) {
	for key, info := range r.routes {
		handler := info.Handler
		if info.Limited && limiter != nil {
			handler = limiter(handler)
		}
		mux.Handle(key, handler)
	}
	r.logRoutesTable()
}

func (r *RouteRegistry) GetRoutes() map[string]RouteInfo {
	return r.routes
}

func (r *RouteRegistry) sorted() []RouteInfo {
	entries := make([]RouteInfo, 0, len(r.routes))
	for _, info := range r.routes {
		entries = append(entries, info)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})
	return entries
}

func (r *RouteRegistry) logRoutesTable() {
	if len(r.routes) == 0 {
		return
	}

	entries := r.sorted()
	tableData := [][]string{
		{"ROUTE", "METHOD", "DESCRIPTION"},
	}
	for _, entry := range entries {
		desc := entry.Description
		if entry.Limited {
			desc += " (rate limited)"
		}
		tableData = append(tableData, []string{entry.Path, entry.Method, desc})
	}

	r.logger.InfoWithCount("Registered web routes", len(entries))
	tableString, _ := pterm.DefaultTable.WithHasHeader().WithData(tableData).Srender()
	fmt.Print(tableString)
}

// pattern builds a Go 1.22 mux pattern. "/" is pinned to the exact root so
// it does not swallow unknown paths.
func pattern(method, path string) string {
	if path == "/" {
		path = "/{$}"
	}
	return method + " " + path
}
