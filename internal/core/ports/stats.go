package ports

import (
	"time"

	"github.com/thushan/narrador/internal/core/domain"
)

// NarrationRecorder is the slice of the collector the orchestrator reports to
type NarrationRecorder interface {
	RecordAttempt(outcome domain.AttemptOutcome)
	RecordNarration(result domain.NarrationResult)
}

type StatsCollector interface {
	NarrationRecorder
	RecordRateLimited(clientID string)

	GetModelStats() map[string]ModelStats
	GetNarrationStats() NarrationStats
}

type ModelStats struct {
	Failures       map[domain.Classification]int64 `json:"failures"`
	Model          string                          `json:"model"`
	Attempts       int64                           `json:"attempts"`
	Successes      int64                           `json:"successes"`
	FailedAttempts int64                           `json:"failed_attempts"`
	AverageLatency int64                           `json:"average_latency_ms"`
	P50Latency     int64                           `json:"p50_latency_ms"`
	P95Latency     int64                           `json:"p95_latency_ms"`
	LastSuccess    time.Time                       `json:"last_success,omitzero"`
	LastFailure    time.Time                       `json:"last_failure,omitzero"`
}

type NarrationStats struct {
	Total              int64 `json:"total"`
	Succeeded          int64 `json:"succeeded"`
	Exhausted          int64 `json:"exhausted"`
	Attempts           int64 `json:"attempts"`
	RateLimited        int64 `json:"rate_limited"`
	RateLimitedClients int   `json:"rate_limited_clients"`
}
