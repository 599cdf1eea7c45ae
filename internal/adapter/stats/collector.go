package stats

/*
	Collector keeps per-model attempt counters for the status surface: how
	often each candidate was tried, how often it answered, and why it failed
	when it did not. Narrations (one per user request) are counted separately
	so fallbacks show up as attempts > narrations.
*/

import (
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/thushan/narrador/internal/core/domain"
	"github.com/thushan/narrador/internal/core/ports"
	"github.com/thushan/narrador/internal/logger"
)

type Collector struct {
	models *xsync.Map[string, *modelData]
	logger logger.StyledLogger

	narrations  *xsync.Counter
	succeeded   *xsync.Counter
	exhausted   *xsync.Counter
	rateLimited *xsync.Counter
	attempts    *xsync.Counter

	rateLimitedClients *xsync.Map[string, int64]
}

type modelData struct {
	failures     *xsync.Map[domain.Classification, *xsync.Counter]
	latency      *latencySampler
	name         string
	attempts     *xsync.Counter
	successes    *xsync.Counter
	failed       *xsync.Counter
	totalLatency *xsync.Counter
	lastSuccess  atomic.Int64
	lastFailure  atomic.Int64
}

func NewCollector(logger logger.StyledLogger) *Collector {
	return &Collector{
		models:             xsync.NewMap[string, *modelData](),
		logger:             logger,
		narrations:         xsync.NewCounter(),
		succeeded:          xsync.NewCounter(),
		exhausted:          xsync.NewCounter(),
		rateLimited:        xsync.NewCounter(),
		attempts:           xsync.NewCounter(),
		rateLimitedClients: xsync.NewMap[string, int64](),
	}
}

func (c *Collector) RecordAttempt(outcome domain.AttemptOutcome) {
	if outcome.Model == "" {
		c.logger.Debug("Dropping attempt without model")
		return
	}

	now := time.Now().UnixNano()
	data := c.getOrInit(outcome.Model)
	data.attempts.Inc()

	if outcome.Succeeded() {
		ms := outcome.Latency.Milliseconds()
		data.successes.Inc()
		data.totalLatency.Add(ms)
		data.latency.add(ms)
		data.lastSuccess.Store(now)
		return
	}

	data.failed.Inc()
	data.lastFailure.Store(now)
	counter, _ := data.failures.LoadOrCompute(outcome.Classification(), func() (*xsync.Counter, bool) {
		return xsync.NewCounter(), false
	})
	counter.Inc()
}

func (c *Collector) RecordNarration(result domain.NarrationResult) {
	c.narrations.Inc()
	c.attempts.Add(int64(result.Attempts))
	if result.OK {
		c.succeeded.Inc()
	} else {
		c.exhausted.Inc()
	}
}

func (c *Collector) RecordRateLimited(clientID string) {
	c.rateLimited.Inc()

	now := time.Now().UnixNano()
	cutoff := now - int64(time.Hour)
	c.rateLimitedClients.Store(clientID, now)
	c.rateLimitedClients.Range(func(id string, ts int64) bool {
		if ts < cutoff {
			c.rateLimitedClients.Delete(id)
		}
		return true
	})
}

func (c *Collector) GetModelStats() map[string]ports.ModelStats {
	result := make(map[string]ports.ModelStats)

	c.models.Range(func(name string, data *modelData) bool {
		successes := data.successes.Value()
		var avg int64
		if successes > 0 {
			avg = data.totalLatency.Value() / successes
		}
		p50, p95 := data.latency.percentiles()

		failures := make(map[domain.Classification]int64)
		data.failures.Range(func(class domain.Classification, counter *xsync.Counter) bool {
			failures[class] = counter.Value()
			return true
		})

		result[name] = ports.ModelStats{
			Model:          name,
			Attempts:       data.attempts.Value(),
			Successes:      successes,
			FailedAttempts: data.failed.Value(),
			Failures:       failures,
			AverageLatency: avg,
			P50Latency:     p50,
			P95Latency:     p95,
			LastSuccess:    fromNano(data.lastSuccess.Load()),
			LastFailure:    fromNano(data.lastFailure.Load()),
		}
		return true
	})

	return result
}

func (c *Collector) GetNarrationStats() ports.NarrationStats {
	return ports.NarrationStats{
		Total:              c.narrations.Value(),
		Succeeded:          c.succeeded.Value(),
		Exhausted:          c.exhausted.Value(),
		Attempts:           c.attempts.Value(),
		RateLimited:        c.rateLimited.Value(),
		RateLimitedClients: c.rateLimitedClients.Size(),
	}
}

func (c *Collector) getOrInit(model string) *modelData {
	data, _ := c.models.LoadOrCompute(model, func() (*modelData, bool) {
		return &modelData{
			name:         model,
			failures:     xsync.NewMap[domain.Classification, *xsync.Counter](),
			latency:      newLatencySampler(defaultSampleSize),
			attempts:     xsync.NewCounter(),
			successes:    xsync.NewCounter(),
			failed:       xsync.NewCounter(),
			totalLatency: xsync.NewCounter(),
		}, false
	})
	return data
}

func fromNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
