package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/thushan/narrador/internal/adapter/narrator"
	"github.com/thushan/narrador/internal/adapter/security"
	"github.com/thushan/narrador/internal/adapter/stats"
	"github.com/thushan/narrador/internal/config"
	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/logger"
)

func createTestLogger() logger.StyledLogger {
	return logger.NewPlainStyledLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeTransport answers per model from a fixed table
type fakeTransport struct {
	outcomes map[string]domain.AttemptOutcome
	calls    int
	mu       sync.Mutex
}

func (f *fakeTransport) Attempt(_ context.Context, req domain.AttemptRequest) domain.AttemptOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out, ok := f.outcomes[req.Model]
	if !ok {
		out = domain.AttemptOutcome{
			Failure: domain.NewAttemptError(req.Model, domain.ClassRateLimited, 429, "OpenRouter 429: Rate limit exceeded", nil),
		}
	}
	out.Model = req.Model
	out.Latency = 5 * time.Millisecond
	return out
}

type testEnv struct {
	app       *Application
	handler   http.Handler
	transport *fakeTransport
	stats     *stats.Collector
}

func newTestEnv(t *testing.T, credential string, mutate func(*config.Config), outcomes map[string]domain.AttemptOutcome) *testEnv {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Provider.APIKey = credential
	cfg.Provider.Model = "model-a"
	cfg.Provider.FallbackModels = []string{"model-b", "model-c"}
	cfg.Server.AdminToken = "segredo"
	if mutate != nil {
		mutate(cfg)
	}

	log := createTestLogger()
	transport := &fakeTransport{outcomes: outcomes}
	collector := stats.NewCollector(log)
	svc := narrator.NewService(narrator.Config{
		Credential:     cfg.Provider.APIKey,
		FallbackModels: cfg.Provider.FallbackModels,
	}, narrator.NewModelSelection(cfg.Provider.Model), transport, collector, log)

	limiter := security.NewRateLimiter(cfg.Server.RateLimits, collector, log)
	t.Cleanup(limiter.Stop)

	app := NewApplication(cfg, svc, collector, limiter, log)
	return &testEnv{app: app, handler: app.Handler(), transport: transport, stats: collector}
}

func (e *testEnv) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:4000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestKeepAliveAndHealth(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)

	w := env.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = env.do(http.MethodGet, "/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)
	w := env.do(http.MethodGet, "/api/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", gjson.Get(w.Body.String(), "message").String())
}

func TestNarrate_FallbackSuccess(t *testing.T) {
	env := newTestEnv(t, "sk", nil, map[string]domain.AttemptOutcome{
		"model-c": {Text: "A taverna silencia."},
	})

	w := env.do(http.MethodPost, "/api/narrate", `{"text":"entro na taverna"}`, map[string]string{"X-Request-ID": "nar_test"})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, gjson.Get(body, "ok").Bool())
	assert.Equal(t, "model-c", gjson.Get(body, "model").String())
	assert.Equal(t, "A taverna silencia.", gjson.Get(body, "text").String())
	assert.Equal(t, int64(3), gjson.Get(body, "attempts").Int())
	assert.Equal(t, "nar_test", gjson.Get(body, "request_id").String())
	assert.Equal(t, 3, env.transport.calls)
}

func TestNarrate_ExhaustedIsVisibleNotFatal(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)

	w := env.do(http.MethodPost, "/api/narrate", `{"text":"olá"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.False(t, gjson.Get(body, "ok").Bool())
	assert.Equal(t, gjson.Null, gjson.Get(body, "model").Type)
	assert.Contains(t, gjson.Get(body, "text").String(), "OpenRouter 429: Rate limit exceeded")
}

func TestNarrate_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("á", 2500)
	env := newTestEnv(t, "sk", nil, map[string]domain.AttemptOutcome{
		"model-a": {Text: long},
	})

	w := env.do(http.MethodPost, "/api/narrate", `{"text":"descreva"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	text := gjson.Get(w.Body.String(), "text").String()
	assert.Equal(t, 1901, len([]rune(text)))
	assert.True(t, strings.HasSuffix(text, "…"))
}

func TestNarrate_BadInput(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)

	for name, body := range map[string]string{
		"empty text":   `{"text":"   "}`,
		"missing text": `{}`,
		"not json":     `narrar`,
	} {
		t.Run(name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/narrate", body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Use: !narrar <texto>", gjson.Get(w.Body.String(), "hint").String())
		})
	}
	assert.Zero(t, env.transport.calls)
}

func TestNarrate_MissingCredential(t *testing.T) {
	env := newTestEnv(t, "", nil, nil)

	w := env.do(http.MethodPost, "/api/narrate", `{"text":"olá"}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "error").String(), "OPENROUTER_API_KEY")
	assert.Zero(t, env.transport.calls)
}

func TestNarrate_RateLimited(t *testing.T) {
	env := newTestEnv(t, "sk", func(c *config.Config) {
		c.Server.RateLimits.PerClientRequestsPerMinute = 1
		c.Server.RateLimits.BurstSize = 1
	}, map[string]domain.AttemptOutcome{"model-a": {Text: "ok"}})

	assert.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/narrate", `{"text":"um"}`, nil).Code)
	w := env.do(http.MethodPost, "/api/narrate", `{"text":"dois"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other routes are not limited
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/ping", "", nil).Code)
	assert.Equal(t, int64(1), env.stats.GetNarrationStats().RateLimited)
}

func TestModel_GetAndSet(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)

	w := env.do(http.MethodGet, "/api/config/model", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "model-a", gjson.Get(w.Body.String(), "current").String())
	assert.Equal(t, `["model-a","model-b","model-c"]`, gjson.Get(w.Body.String(), "candidates").Raw)

	admin := map[string]string{"X-Admin-Token": "segredo"}
	w = env.do(http.MethodPut, "/api/config/model", `{"model":"  model-x "}`, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "model-x", gjson.Get(w.Body.String(), "current").String())
	assert.Equal(t, "model-a", gjson.Get(w.Body.String(), "previous").String())

	w = env.do(http.MethodPut, "/api/config/model", `{"model":"   "}`, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/config/model", "", nil)
	assert.Equal(t, "model-x", gjson.Get(w.Body.String(), "current").String())
}

func TestModel_SetRequiresAdmin(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)

	w := env.do(http.MethodPut, "/api/config/model", `{"model":"model-x"}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPut, "/api/config/model", `{"model":"model-x"}`, map[string]string{"X-Admin-Token": "errado"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	disabled := newTestEnv(t, "sk", func(c *config.Config) { c.Server.AdminToken = "" }, nil)
	w = disabled.do(http.MethodPut, "/api/config/model", `{"model":"model-x"}`, map[string]string{"X-Admin-Token": ""})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/config/model", "", nil)
	assert.Equal(t, "model-a", gjson.Get(w.Body.String(), "current").String())
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, "sk", nil, map[string]domain.AttemptOutcome{
		"model-b": {Text: "ok"},
	})
	env.do(http.MethodPost, "/api/narrate", `{"text":"olá"}`, nil)

	w := env.do(http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Regexp(t, `^\d+h \d+m \d+s$`, gjson.Get(body, "uptime").String())
	assert.Equal(t, "model-a", gjson.Get(body, "model").String())
	assert.Equal(t, int64(1), gjson.Get(body, "narrations.total").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "narrations.attempts").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "models.#").Int())
	assert.Equal(t, int64(1), gjson.Get(body, `models.#(name=="model-a").failures.rate_limited_or_quota_exhausted`).Int())
	assert.Positive(t, gjson.Get(body, "runtime.goroutines").Int())
	assert.NotEmpty(t, gjson.Get(body, "runtime.heap_alloc").String())
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t, "sk", nil, nil)
	w := env.do(http.MethodGet, "/version", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "narrador", gjson.Get(w.Body.String(), "name").String())
}
