package sampler

import (
	"time"

	"codeberg.org/renvik/pistat/internal/hostinfo"
	"codeberg.org/renvik/pistat/internal/power"
)

// NoInternet is the sentinel shown when no externally-routable address
// exists.
const NoInternet = "No Internet"

// NetStat is the network portion of a snapshot.
type NetStat struct {
	Addrs    []hostinfo.Addr
	Internet string
	DownMbps float64
	UpMbps   float64
}

// PowerStat merges the two independent power sources: the PMIC rails and,
// when wired, the shunt sensor. TotalWatts is the rail sum plus the sensor
// contribution for this tick.
type PowerStat struct {
	Rails      power.Rails
	Sensor     power.SensorReading
	SensorOK   bool
	TotalWatts float64
}

// Snapshot is one immutable bundle of everything sampled in a single pass.
// Failed sub-collections hold their zero values; a snapshot is never
// exposed half-built.
type Snapshot struct {
	Taken    time.Time
	CPU      hostinfo.CPUStat
	Memory   hostinfo.Usage
	Disk     hostinfo.Usage
	Net      NetStat
	Power    PowerStat
	Throttle power.ThrottleState
}
