package security

/*
	RateLimiter guards the narrate route with one token bucket per client.
	Every narrate call may fan out to one provider request per candidate, so
	the limit is on callers, not on provider traffic. Idle buckets are swept
	by a background ticker.

	References:
	- https://pkg.go.dev/golang.org/x/time/rate
*/

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/time/rate"

	"github.com/thushan/narrador/internal/config"
	"github.com/thushan/narrador/internal/core/constants"
	"github.com/thushan/narrador/internal/logger"
	"github.com/thushan/narrador/internal/util"
)

const idleLimiterTTL = 10 * time.Minute

// ViolationRecorder is told about every rejected request
type ViolationRecorder interface {
	RecordRateLimited(clientID string)
}

type RateLimiter struct {
	recorder ViolationRecorder
	logger   logger.StyledLogger

	limiters     *xsync.Map[string, *clientLimiter]
	cleanup      *time.Ticker
	stopCleanup  chan struct{}
	trustedCIDRs []*net.IPNet

	requestsPerMinute int
	burstSize         int
	stopOnce          sync.Once
	trustProxyHeaders bool
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess atomicTime
}

// Decision is the outcome of one Allow call
type Decision struct {
	ResetTime  time.Time
	Limit      int
	RetryAfter int
	Allowed    bool
}

func NewRateLimiter(limits config.ServerRateLimits, recorder ViolationRecorder, logger logger.StyledLogger) *RateLimiter {
	burst := limits.BurstSize
	if burst <= 0 {
		burst = 1
	}

	rl := &RateLimiter{
		recorder:          recorder,
		logger:            logger,
		limiters:          xsync.NewMap[string, *clientLimiter](),
		stopCleanup:       make(chan struct{}),
		trustedCIDRs:      limits.TrustedProxyCIDRsParsed,
		requestsPerMinute: limits.PerClientRequestsPerMinute,
		burstSize:         burst,
		trustProxyHeaders: limits.TrustProxyHeaders,
	}

	if limits.CleanupInterval > 0 && rl.requestsPerMinute > 0 {
		rl.cleanup = time.NewTicker(limits.CleanupInterval)
		go rl.cleanupRoutine()
	}
	return rl
}

// Allow consumes one token for clientID. A zero limit disables limiting.
func (rl *RateLimiter) Allow(clientID string, now time.Time) Decision {
	if rl.requestsPerMinute <= 0 {
		return Decision{Allowed: true, ResetTime: now.Add(time.Minute)}
	}

	cl := rl.getOrCreate(clientID, now)
	cl.lastAccess.Store(now)

	reservation := cl.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{
			Limit:      rl.requestsPerMinute,
			RetryAfter: 60,
			ResetTime:  now.Add(time.Minute),
		}
	}

	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{
			Limit:      rl.requestsPerMinute,
			RetryAfter: int(delay.Seconds()) + 1,
			ResetTime:  now.Add(delay),
		}
	}

	return Decision{
		Allowed:   true,
		Limit:     rl.requestsPerMinute,
		ResetTime: now.Add(time.Minute),
	}
}

func (rl *RateLimiter) getOrCreate(clientID string, now time.Time) *clientLimiter {
	cl, _ := rl.limiters.LoadOrCompute(clientID, func() (*clientLimiter, bool) {
		perSecond := rate.Limit(float64(rl.requestsPerMinute) / 60.0)
		c := &clientLimiter{limiter: rate.NewLimiter(perSecond, rl.burstSize)}
		c.lastAccess.Store(now)
		return c, false
	})
	return cl
}

func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.stopCleanup:
			return
		case now := <-rl.cleanup.C:
			rl.sweep(now)
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) int {
	cutoff := now.Add(-idleLimiterTTL)
	removed := 0
	rl.limiters.Range(func(id string, cl *clientLimiter) bool {
		if cl.lastAccess.Load().Before(cutoff) {
			rl.limiters.Delete(id)
			removed++
		}
		return true
	})
	if removed > 0 {
		rl.logger.Debug("Swept idle rate limiters", "removed", removed, "remaining", rl.limiters.Size())
	}
	return removed
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		if rl.cleanup != nil {
			rl.cleanup.Stop()
		}
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := util.GetClientIP(r, rl.trustProxyHeaders, rl.trustedCIDRs)
		decision := rl.Allow(clientIP, time.Now())

		if decision.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetTime.Unix(), 10))
		}

		if !decision.Allowed {
			w.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(decision.RetryAfter))
			if rl.recorder != nil {
				rl.recorder.RecordRateLimited(clientIP)
			}
			rl.logger.Warn("Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"path", r.URL.Path,
				"limit", decision.Limit,
				"retry_after", decision.RetryAfter)

			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
