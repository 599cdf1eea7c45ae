package stats

import (
	"math/rand/v2"
	"slices"
	"sync"
)

const defaultSampleSize = 128

// latencySampler keeps a bounded reservoir of attempt latencies so percentiles
// stay cheap no matter how long the process runs.
type latencySampler struct {
	samples []int64
	size    int
	count   int64
	mu      sync.Mutex
}

func newLatencySampler(size int) *latencySampler {
	if size <= 0 {
		size = defaultSampleSize
	}
	return &latencySampler{
		size:    size,
		samples: make([]int64, 0, size),
	}
}

func (ls *latencySampler) add(ms int64) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	ls.count++
	if len(ls.samples) < ls.size {
		ls.samples = append(ls.samples, ms)
		return
	}
	if j := rand.Int64N(ls.count); j < int64(ls.size) { //nolint:gosec // sampling, not crypto
		ls.samples[j] = ms
	}
}

func (ls *latencySampler) percentiles() (p50, p95 int64) {
	ls.mu.Lock()
	sorted := slices.Clone(ls.samples)
	ls.mu.Unlock()

	if len(sorted) == 0 {
		return 0, 0
	}
	slices.Sort(sorted)
	return sorted[index(len(sorted), 50)], sorted[index(len(sorted), 95)]
}

func index(n, pct int) int {
	i := n * pct / 100
	if i >= n {
		i = n - 1
	}
	return i
}
