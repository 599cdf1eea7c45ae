package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/narrador/internal/logger"
)

func createTestLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func text(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	}
}

func TestRouteRegistry_WireUp(t *testing.T) {
	reg := NewRouteRegistry(createTestLogger())
	reg.Register("/", text("ok"), "Keep-alive")
	reg.RegisterWithMethod("/api/config/model", text("put"), "Set model", http.MethodPut)
	reg.Register("/api/config/model", text("get"), "Get model")

	limited := 0
	reg.RegisterLimited("/api/narrate", text("narrated"), "Narrate", http.MethodPost)

	mux := http.NewServeMux()
	reg.WireUp(mux, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited++
			next.ServeHTTP(w, r)
		})
	})

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "ok", http.StatusOK},
		{http.MethodGet, "/nope", "", http.StatusNotFound},
		{http.MethodGet, "/api/config/model", "get", http.StatusOK},
		{http.MethodPut, "/api/config/model", "put", http.StatusOK},
		{http.MethodPost, "/api/narrate", "narrated", http.StatusOK},
		{http.MethodGet, "/api/narrate", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}

	assert.Equal(t, 1, limited)
}

func TestRouteRegistry_OrderPreserved(t *testing.T) {
	reg := NewRouteRegistry(createTestLogger())
	reg.Register("/b", text(""), "second")
	reg.Register("/a", text(""), "first")
	reg.RegisterWithMethod("/a", text(""), "third", http.MethodPost)

	entries := reg.sorted()
	require.Len(t, entries, 3)
	assert.Equal(t, "/b", entries[0].Path)
	assert.Equal(t, "/a", entries[1].Path)
	assert.Equal(t, http.MethodPost, entries[2].Method)
	assert.Len(t, reg.GetRoutes(), 3)
}
