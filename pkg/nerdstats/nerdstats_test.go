package nerdstats

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	runtime.GC()

	s := Snapshot(start)

	assert.Positive(t, s.HeapSys)
	assert.Positive(t, s.NumGoroutines)
	assert.Equal(t, runtime.NumCPU(), s.NumCPU)
	assert.Equal(t, runtime.Version(), s.GoVersion)
	assert.GreaterOrEqual(t, s.Uptime, time.Minute)
	assert.NotZero(t, s.NumGC)
	assert.False(t, s.LastGC.IsZero())
}

func TestMemoryPressure(t *testing.T) {
	tests := []struct {
		name  string
		stats NerdStats
		want  string
	}{
		{"empty", NerdStats{}, "LOW"},
		{"low", NerdStats{HeapSys: 100, HeapInuse: 50, Mallocs: 100, Frees: 99}, "LOW"},
		{"medium heap", NerdStats{HeapSys: 100, HeapInuse: 80, Mallocs: 100, Frees: 99}, "MEDIUM"},
		{"medium allocs", NerdStats{HeapSys: 100, HeapInuse: 10, Mallocs: 200, Frees: 99}, "MEDIUM"},
		{"high", NerdStats{HeapSys: 100, HeapInuse: 95, Mallocs: 300, Frees: 99}, "HIGH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stats.MemoryPressure())
		})
	}
}

func TestGoroutineHealth(t *testing.T) {
	assert.Equal(t, "HEALTHY", (&NerdStats{NumGoroutines: 10}).GoroutineHealth())
	assert.Equal(t, "NORMAL", (&NerdStats{NumGoroutines: 100}).GoroutineHealth())
	assert.Equal(t, "ELEVATED", (&NerdStats{NumGoroutines: 500}).GoroutineHealth())
	assert.Equal(t, "CONCERNING", (&NerdStats{NumGoroutines: 5000}).GoroutineHealth())
}

func TestAverageGCPause(t *testing.T) {
	assert.Zero(t, (&NerdStats{}).AverageGCPause())
	assert.Equal(t, 5*time.Millisecond, (&NerdStats{NumGC: 4, TotalGCTime: 20 * time.Millisecond}).AverageGCPause())
}
