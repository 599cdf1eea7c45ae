package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/docker/go-units"

	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/core/ports"
	"github.com/thushan/narrador/internal/util"
	"github.com/thushan/narrador/internal/version"
	"github.com/thushan/narrador/pkg/format"
	"github.com/thushan/narrador/pkg/nerdstats"
)

type StatusResponse struct {
	Timestamp  time.Time        `json:"timestamp"`
	Uptime     string           `json:"uptime"`
	Version    string           `json:"version"`
	Model      string           `json:"model"`
	Candidates []string         `json:"candidates"`
	Models     []ModelStatus    `json:"models"`
	Narrations NarrationSummary `json:"narrations"`
	Runtime    RuntimeStatus    `json:"runtime"`
}

type ModelStatus struct {
	Failures       map[domain.Classification]int64 `json:"failures,omitempty"`
	Name           string                          `json:"name"`
	SuccessRate    string                          `json:"success_rate"`
	AverageLatency string                          `json:"average_latency"`
	P95Latency     string                          `json:"p95_latency"`
	LastSuccess    string                          `json:"last_success"`
	LastFailure    string                          `json:"last_failure"`
	Attempts       int64                           `json:"attempts"`
	Successes      int64                           `json:"successes"`
}

type NarrationSummary struct {
	SuccessRate        string `json:"success_rate"`
	Total              int64  `json:"total"`
	Succeeded          int64  `json:"succeeded"`
	Exhausted          int64  `json:"exhausted"`
	Attempts           int64  `json:"attempts"`
	RateLimited        int64  `json:"rate_limited"`
	RateLimitedClients int    `json:"rate_limited_clients"`
}

type RuntimeStatus struct {
	HeapAlloc       string `json:"heap_alloc"`
	HeapSys         string `json:"heap_sys"`
	MemoryPressure  string `json:"memory_pressure"`
	GoroutineHealth string `json:"goroutine_health"`
	GoVersion       string `json:"go_version"`
	Goroutines      int    `json:"goroutines"`
	NumGC           uint32 `json:"num_gc"`
}

func (a *Application) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Timestamp:  time.Now().UTC(),
		Uptime:     util.FormatUptime(time.Since(a.StartTime)),
		Version:    version.Version,
		Model:      a.narrator.Model(),
		Candidates: a.narrator.Candidates(),
		Models:     []ModelStatus{},
		Runtime:    buildRuntimeStatus(nerdstats.Snapshot(a.StartTime)),
	}

	if a.statsCollector != nil {
		resp.Models = buildModelStatus(a.statsCollector.GetModelStats())

		n := a.statsCollector.GetNarrationStats()
		resp.Narrations = NarrationSummary{
			SuccessRate:        format.SuccessRate(n.Succeeded, n.Total),
			Total:              n.Total,
			Succeeded:          n.Succeeded,
			Exhausted:          n.Exhausted,
			Attempts:           n.Attempts,
			RateLimited:        n.RateLimited,
			RateLimitedClients: n.RateLimitedClients,
		}
	}

	a.writeJSON(w, http.StatusOK, resp)
}

// buildModelStatus orders models by attempts, busiest first
func buildModelStatus(stats map[string]ports.ModelStats) []ModelStatus {
	models := make([]ModelStatus, 0, len(stats))
	for name, s := range stats {
		models = append(models, ModelStatus{
			Name:           name,
			Attempts:       s.Attempts,
			Successes:      s.Successes,
			Failures:       s.Failures,
			SuccessRate:    format.SuccessRate(s.Successes, s.Attempts),
			AverageLatency: format.Latency(s.AverageLatency),
			P95Latency:     format.Latency(s.P95Latency),
			LastSuccess:    format.TimeAgo(s.LastSuccess),
			LastFailure:    format.TimeAgo(s.LastFailure),
		})
	}
	sort.Slice(models, func(i, j int) bool {
		if models[i].Attempts != models[j].Attempts {
			return models[i].Attempts > models[j].Attempts
		}
		return models[i].Name < models[j].Name
	})
	return models
}

func buildRuntimeStatus(s *nerdstats.NerdStats) RuntimeStatus {
	return RuntimeStatus{
		HeapAlloc:       units.HumanSize(float64(s.HeapAlloc)),
		HeapSys:         units.HumanSize(float64(s.HeapSys)),
		MemoryPressure:  s.MemoryPressure(),
		GoroutineHealth: s.GoroutineHealth(),
		GoVersion:       s.GoVersion,
		Goroutines:      s.NumGoroutines,
		NumGC:           s.NumGC,
	}
}
