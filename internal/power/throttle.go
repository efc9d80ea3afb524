package power

import (
	"strconv"
	"strings"

	"codeberg.org/renvik/pistat/internal/errors"
)

// Firmware bit positions in the get_throttled mask.
const (
	bitUnderVoltage      = 1 << 0
	bitThermalThrottled  = 1 << 1
	bitFreqCapped        = 1 << 2
	bitUnderVoltageSince = 1 << 16
	bitThermalSince      = 1 << 17
)

// ThrottleState is the decoded get_throttled bitmask. The first three flags
// are instantaneous conditions, the last two latch once tripped and stay set
// until reboot.
type ThrottleState struct {
	UnderVoltage      bool
	ThermalThrottled  bool
	FreqCapped        bool
	UnderVoltageSince bool
	ThermalSince      bool
}

// Any reports whether any alarm condition is set.
func (t ThrottleState) Any() bool {
	return t.UnderVoltage || t.ThermalThrottled || t.FreqCapped || t.UnderVoltageSince || t.ThermalSince
}

// ParseThrottled decodes the output of `vcgencmd get_throttled`, either the
// full "throttled=0x50005" form or a bare hex literal.
func ParseThrottled(raw string) (ThrottleState, error) {
	errFactory := errors.New()

	value := strings.TrimSpace(raw)
	if _, after, ok := strings.Cut(value, "="); ok {
		value = after
	}
	value = strings.TrimPrefix(strings.TrimSpace(value), "0x")

	mask, err := strconv.ParseUint(value, 16, 64)
	if err != nil {
		return ThrottleState{}, errFactory.WithData(ErrBadBitmask, raw)
	}

	return ThrottleState{
		UnderVoltage:      mask&bitUnderVoltage != 0,
		ThermalThrottled:  mask&bitThermalThrottled != 0,
		FreqCapped:        mask&bitFreqCapped != 0,
		UnderVoltageSince: mask&bitUnderVoltageSince != 0,
		ThermalSince:      mask&bitThermalSince != 0,
	}, nil
}
