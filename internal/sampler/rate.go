package sampler

import "time"

// minDuration guards rate math against clock anomalies; a tick that appears
// to take no time is treated as this long instead of dividing by zero.
const minDuration = time.Millisecond

// RateTracker turns cumulative byte counters into throughput. It holds the
// previous counters and timestamp and is written exactly once per sampling
// pass, by the sampler only.
type RateTracker struct {
	prevRecv uint64
	prevSent uint64
	prevAt   time.Time
}

// NewRateTracker seeds the tracker with one prior reading so the first
// Compute call has a baseline.
func NewRateTracker(recv, sent uint64, at time.Time) *RateTracker {
	return &RateTracker{
		prevRecv: recv,
		prevSent: sent,
		prevAt:   at,
	}
}

// Compute returns download/upload throughput in megabits per second since
// the previous call, then stores the new counters as the next baseline.
// Counter resets (interface bounce, wraparound) clamp to zero rather than
// reporting a negative rate.
func (t *RateTracker) Compute(recv, sent uint64, now time.Time) (downMbps, upMbps float64) {
	duration := now.Sub(t.prevAt)
	if duration < minDuration {
		duration = minDuration
	}
	seconds := duration.Seconds()

	downMbps = float64(counterDelta(recv, t.prevRecv)) * 8 / 1e6 / seconds
	upMbps = float64(counterDelta(sent, t.prevSent)) * 8 / 1e6 / seconds

	t.prevRecv = recv
	t.prevSent = sent
	t.prevAt = now

	return downMbps, upMbps
}

func counterDelta(current, previous uint64) uint64 {
	if current < previous {
		return 0
	}

	return current - previous
}
