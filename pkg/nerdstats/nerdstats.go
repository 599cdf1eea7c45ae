package nerdstats

import (
	"runtime"
	"time"
)

/*
	NerdStats is a trimmed snapshot of Go runtime statistics for the relay:
	heap, GC and goroutine counts. Narrador holds almost nothing per request
	so these mostly confirm that nothing is leaking between narrations.

	See: https://pkg.go.dev/runtime#MemStats
*/

type NerdStats struct {
	LastGC      time.Time
	GoVersion   string
	HeapAlloc   uint64
	HeapSys     uint64
	HeapInuse   uint64
	StackInuse  uint64
	TotalAlloc  uint64
	Mallocs     uint64
	Frees       uint64
	TotalGCTime time.Duration
	Uptime      time.Duration

	NumGoroutines int
	NumCPU        int
	NumGC         uint32
}

func Snapshot(startTime time.Time) *NerdStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := &NerdStats{
		HeapAlloc:     m.HeapAlloc,
		HeapSys:       m.HeapSys,
		HeapInuse:     m.HeapInuse,
		StackInuse:    m.StackInuse,
		TotalAlloc:    m.TotalAlloc,
		Mallocs:       m.Mallocs,
		Frees:         m.Frees,
		NumGC:         m.NumGC,
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(startTime),
	}

	if m.LastGC > 0 {
		stats.LastGC = time.Unix(0, int64(m.LastGC))
		stats.TotalGCTime = time.Duration(m.PauseTotalNs)
	}
	return stats
}

// MemoryPressure is a coarse LOW/MEDIUM/HIGH reading of heap use
func (ns *NerdStats) MemoryPressure() string {
	if ns.HeapSys == 0 {
		return "LOW"
	}
	heapUsageRatio := float64(ns.HeapInuse) / float64(ns.HeapSys)
	allocsPerFree := float64(ns.Mallocs) / float64(ns.Frees+1)

	switch {
	case heapUsageRatio > 0.9 && allocsPerFree > 1.5:
		return "HIGH"
	case heapUsageRatio > 0.7 || allocsPerFree > 1.2:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// GoroutineHealth flags goroutine growth. Each in-flight narration holds one
// handler goroutine plus the transport's, so a few hundred already means
// requests are piling up behind slow providers.
func (ns *NerdStats) GoroutineHealth() string {
	switch {
	case ns.NumGoroutines > 1000:
		return "CONCERNING"
	case ns.NumGoroutines > 250:
		return "ELEVATED"
	case ns.NumGoroutines > 50:
		return "NORMAL"
	default:
		return "HEALTHY"
	}
}

func (ns *NerdStats) AverageGCPause() time.Duration {
	if ns.NumGC == 0 {
		return 0
	}
	return ns.TotalGCTime / time.Duration(ns.NumGC)
}
