package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, "0%", SuccessRate(0, 0))
	assert.Equal(t, "0%", SuccessRate(0, 5))
	assert.Equal(t, "100%", SuccessRate(4, 4))
	assert.Equal(t, "33.3%", SuccessRate(1, 3))
}

func TestLatency(t *testing.T) {
	assert.Equal(t, "0ms", Latency(0))
	assert.Equal(t, "7ms", Latency(7))
	assert.Equal(t, "850ms", Latency(850))
	assert.Equal(t, "2.5s", Latency(2500))
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "never", TimeAgo(time.Time{}))
	assert.Equal(t, "5m ago", TimeAgo(time.Now().Add(-5*time.Minute)))
}

func TestTimeDuration(t *testing.T) {
	tests := map[time.Duration]string{
		3 * time.Second:  "3s",
		45 * time.Second: "45s",
		2 * time.Minute:  "2m",
		3 * time.Hour:    "3h",
		50 * time.Hour:   "2d",
	}
	for d, want := range tests {
		assert.Equal(t, want, TimeDuration(d))
	}
}
