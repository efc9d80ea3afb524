package sampler_test

import (
	"testing"
	"time"

	"codeberg.org/renvik/pistat/internal/sampler"
	"github.com/stretchr/testify/assert"
)

func TestRateTrackerCompute(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := sampler.NewRateTracker(1_000_000, 500_000, start)

	down, up := tracker.Compute(2_000_000, 750_000, start.Add(time.Second))
	assert.InDelta(t, 8.0, down, 1e-9)
	assert.InDelta(t, 2.0, up, 1e-9)

	// Half the bytes over two seconds.
	down, up = tracker.Compute(3_000_000, 1_000_000, start.Add(3*time.Second))
	assert.InDelta(t, 4.0, down, 1e-9)
	assert.InDelta(t, 1.0, up, 1e-9)
}

func TestRateTrackerCounterReset(t *testing.T) {
	start := time.Now()
	tracker := sampler.NewRateTracker(5_000_000, 5_000_000, start)

	down, up := tracker.Compute(1_000, 2_000, start.Add(time.Second))
	assert.Zero(t, down, "a decreasing counter must never report a negative rate")
	assert.Zero(t, up)

	// The reset values become the new baseline.
	down, up = tracker.Compute(1_001_000, 252_000, start.Add(2*time.Second))
	assert.InDelta(t, 8.0, down, 1e-9)
	assert.InDelta(t, 2.0, up, 1e-9)
}

func TestRateTrackerClockAnomaly(t *testing.T) {
	start := time.Now()
	tracker := sampler.NewRateTracker(0, 0, start)

	// Zero and negative elapsed time are clamped, not divided by.
	down, _ := tracker.Compute(1000, 0, start)
	assert.False(t, down < 0)
	assert.NotPanics(t, func() {
		tracker.Compute(2000, 0, start.Add(-time.Second))
	})
}
