package sampler_test

import (
	"context"
	"errors"
	"testing"

	"codeberg.org/renvik/pistat/internal/hostinfo"
	"codeberg.org/renvik/pistat/internal/power"
	"codeberg.org/renvik/pistat/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	cpu      hostinfo.CPUStat
	memory   hostinfo.Usage
	disk     hostinfo.Usage
	addrs    []hostinfo.Addr
	addrsErr error
	route    string
	routeErr error
	recv     uint64
	sent     uint64
	cntErr   error
}

func (f *fakeHost) CPU() (hostinfo.CPUStat, error)  { return f.cpu, nil }
func (f *fakeHost) Memory() (hostinfo.Usage, error) { return f.memory, nil }
func (f *fakeHost) Disk() (hostinfo.Usage, error)   { return f.disk, nil }
func (f *fakeHost) Addrs() ([]hostinfo.Addr, error) { return f.addrs, f.addrsErr }
func (f *fakeHost) RouteAddr() (string, error)      { return f.route, f.routeErr }
func (f *fakeHost) Counters() (uint64, uint64, error) {
	return f.recv, f.sent, f.cntErr
}

type fakeTool struct {
	adc          string
	adcErr       error
	throttled    string
	throttledErr error
}

func (f *fakeTool) ReadADC(context.Context) (string, error)   { return f.adc, f.adcErr }
func (f *fakeTool) Throttled(context.Context) (string, error) { return f.throttled, f.throttledErr }

type fakeSensor struct {
	reading power.SensorReading
	err     error
}

func (f *fakeSensor) Sense() (power.SensorReading, error) { return f.reading, f.err }
func (f *fakeSensor) Close() error                        { return nil }

func TestSample(t *testing.T) {
	host := &fakeHost{
		cpu:    hostinfo.CPUStat{FreqGHz: 1.8, Percent: 42, TempC: 55.3},
		memory: hostinfo.Usage{TotalGB: 8, UsedGB: 2, Percent: 25},
		disk:   hostinfo.Usage{TotalGB: 64, UsedGB: 16, Percent: 25},
		addrs:  []hostinfo.Addr{{Name: "wlan0", IP: "192.168.1.5"}},
		route:  "192.168.1.5",
	}
	tool := &fakeTool{
		adc:       "EXT5V_V=5.0V EXT5V_I=1.0A",
		throttled: "throttled=0x50001",
	}
	sensor := &fakeSensor{reading: power.SensorReading{Volts: 5.1, Amps: 0.5, Watts: 2.55}}

	s := sampler.New(host, tool, sensor)
	snap, err := s.Sample(context.Background())
	require.NoError(t, err)

	assert.Equal(t, host.cpu, snap.CPU)
	assert.Equal(t, host.memory, snap.Memory)
	assert.Equal(t, host.disk, snap.Disk)
	assert.Equal(t, "192.168.1.5", snap.Net.Internet)
	assert.Len(t, snap.Net.Addrs, 1)

	assert.True(t, snap.Throttle.UnderVoltage)
	assert.True(t, snap.Throttle.UnderVoltageSince)
	assert.False(t, snap.Throttle.ThermalThrottled)

	assert.True(t, snap.Power.SensorOK)
	assert.InDelta(t, 5.0+2.55, snap.Power.TotalWatts, 1e-9, "total is rail sum plus sensor watts")
}

func TestSampleNoInterfaces(t *testing.T) {
	host := &fakeHost{routeErr: errors.New("unreachable")}
	tool := &fakeTool{throttled: "throttled=0x0"}

	s := sampler.New(host, tool, nil)
	snap, err := s.Sample(context.Background())
	require.NoError(t, err)

	assert.Empty(t, snap.Net.Addrs)
	assert.Equal(t, sampler.NoInternet, snap.Net.Internet)
}

func TestSampleProbeFailure(t *testing.T) {
	host := &fakeHost{
		addrs:    []hostinfo.Addr{{Name: "eth0", IP: "10.0.0.2"}},
		routeErr: errors.New("network is unreachable"),
	}
	tool := &fakeTool{throttled: "throttled=0x0"}

	s := sampler.New(host, tool, nil)
	snap, err := s.Sample(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sampler.NoInternet, snap.Net.Internet)
}

func TestSamplePowerDegradation(t *testing.T) {
	host := &fakeHost{}
	tool := &fakeTool{adcErr: errors.New("not supported"), throttled: "throttled=0x0"}
	sensor := &fakeSensor{err: errors.New("i2c read failed")}

	s := sampler.New(host, tool, sensor)
	snap, err := s.Sample(context.Background())
	require.NoError(t, err, "losing the power sub-source must not fail the pass")

	assert.Empty(t, snap.Power.Rails)
	assert.False(t, snap.Power.SensorOK)
	assert.Zero(t, snap.Power.TotalWatts)
}

func TestSampleThrottleHardFailure(t *testing.T) {
	host := &fakeHost{}

	s := sampler.New(host, &fakeTool{throttledErr: errors.New("vcgencmd: not found")}, nil)
	_, err := s.Sample(context.Background())
	require.Error(t, err, "losing the throttle status fails the whole tick")

	s = sampler.New(host, &fakeTool{throttled: "garbage"}, nil)
	_, err = s.Sample(context.Background())
	require.Error(t, err, "an undecodable bitmask fails the whole tick")
}
