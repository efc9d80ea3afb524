// Package sampler assembles one Snapshot per scheduler tick from the host,
// firmware and sensor collaborators.
package sampler

import (
	"context"
	"time"

	"codeberg.org/renvik/pistat/internal/errors"
	"codeberg.org/renvik/pistat/internal/hostinfo"
	"codeberg.org/renvik/pistat/internal/logger"
	"codeberg.org/renvik/pistat/internal/power"
)

// HostSource is the system-introspection collaborator.
type HostSource interface {
	CPU() (hostinfo.CPUStat, error)
	Memory() (hostinfo.Usage, error)
	Disk() (hostinfo.Usage, error)
	Addrs() ([]hostinfo.Addr, error)
	RouteAddr() (string, error)
	Counters() (recv, sent uint64, err error)
}

// Sampler runs one sampling pass per tick. Every sub-step is fault-isolated:
// a failing source leaves its fields zeroed and the pass continues. The one
// exception is the throttling status, whose loss is a hard failure for the
// tick.
type Sampler struct {
	host   HostSource
	tool   power.Tool
	sensor power.Sensor
	rates  *RateTracker
}

// New constructs a sampler and seeds the rate baseline from the current
// counters so the first tick reports a sane rate.
func New(host HostSource, tool power.Tool, sensor power.Sensor) *Sampler {
	recv, sent, err := host.Counters()
	if err != nil {
		logger.Debug().Err(err).Msg("No initial traffic counters; rates start from zero")
	}

	return &Sampler{
		host:   host,
		tool:   tool,
		sensor: sensor,
		rates:  NewRateTracker(recv, sent, time.Now()),
	}
}

// Sample performs one sampling pass.
func (s *Sampler) Sample(ctx context.Context) (Snapshot, error) {
	now := time.Now()
	snap := Snapshot{Taken: now}

	if cpu, err := s.host.CPU(); err != nil {
		logger.Warn().Err(err).Msg("CPU read failed")
	} else {
		snap.CPU = cpu
	}

	if usage, err := s.host.Memory(); err != nil {
		logger.Warn().Err(err).Msg("Memory read failed")
	} else {
		snap.Memory = usage
	}

	if usage, err := s.host.Disk(); err != nil {
		logger.Warn().Err(err).Msg("Disk read failed")
	} else {
		snap.Disk = usage
	}

	snap.Net = s.sampleNet(now)
	snap.Power = s.samplePower(ctx)

	throttle, err := s.sampleThrottle(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Throttle = throttle

	return snap, nil
}

func (s *Sampler) sampleNet(now time.Time) NetStat {
	stat := NetStat{Internet: NoInternet}

	addrs, err := s.host.Addrs()
	if err != nil {
		logger.Warn().Err(err).Msg("Interface enumeration failed")
	}
	stat.Addrs = addrs

	if len(addrs) > 0 {
		if routed, err := s.host.RouteAddr(); err != nil {
			logger.Debug().Err(err).Msg("Routing probe failed")
		} else {
			stat.Internet = routed
		}
	}

	if recv, sent, err := s.host.Counters(); err != nil {
		logger.Warn().Err(err).Msg("Traffic counters unavailable")
	} else {
		stat.DownMbps, stat.UpMbps = s.rates.Compute(recv, sent, now)
	}

	return stat
}

func (s *Sampler) samplePower(ctx context.Context) PowerStat {
	stat := PowerStat{Rails: power.Rails{}}

	if raw, err := s.tool.ReadADC(ctx); err != nil {
		// Older boards have no PMIC ADC; run with an empty power section.
		logger.Debug().Err(err).Msg("PMIC ADC unavailable")
	} else {
		stat.Rails = power.ParseRails(raw)
	}
	stat.TotalWatts = stat.Rails.TotalWatts()

	if s.sensor != nil {
		if reading, err := s.sensor.Sense(); err != nil {
			logger.Warn().Err(err).Msg("Power sensor read failed; retrying next tick")
		} else {
			stat.Sensor = reading
			stat.SensorOK = true
			stat.TotalWatts += reading.Watts
		}
	}

	return stat
}

func (s *Sampler) sampleThrottle(ctx context.Context) (power.ThrottleState, error) {
	errFactory := errors.New()

	raw, err := s.tool.Throttled(ctx)
	if err != nil {
		return power.ThrottleState{}, errFactory.Wrap(errors.ErrSample, err)
	}

	state, err := power.ParseThrottled(raw)
	if err != nil {
		return power.ThrottleState{}, errFactory.Wrap(errors.ErrSample, err)
	}

	return state, nil
}
