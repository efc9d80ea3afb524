// Package carousel rotates a single display slot through the interface list
// plus one synthetic internet slot, on its own clock independent of the
// sampling cadence.
package carousel

import (
	"time"

	"codeberg.org/renvik/pistat/internal/hostinfo"
)

// NoConnection is shown when there is nothing to rotate through.
const NoConnection = "No connection"

// shortNameWidth is how many characters of the interface name fit next to
// the address.
const shortNameWidth = 4

// Carousel holds the current slot index and the time of the last advance.
// It has a single writer (the scheduler) and needs no locking.
type Carousel struct {
	interval time.Duration
	index    int
	last     time.Time
}

func New(interval time.Duration, now time.Time) *Carousel {
	return &Carousel{
		interval: interval,
		last:     now,
	}
}

// Slots maps an interface count to the slot count: each interface plus the
// synthetic internet slot, or nothing at all when no interface is up.
func Slots(interfaces int) int {
	if interfaces == 0 {
		return 0
	}

	return interfaces + 1
}

// Advance moves to the next slot once the rotation interval has elapsed.
// When the slot count shrank since the last tick the index is clamped back
// into range first, so it never reads out of bounds.
func (c *Carousel) Advance(now time.Time, slots int) {
	if slots <= 0 {
		c.index = 0
		return
	}

	if c.index >= slots {
		c.index = 0
	}

	if now.Sub(c.last) >= c.interval {
		c.index = (c.index + 1) % slots
		c.last = now
	}
}

// Index returns the current 0-based slot index.
func (c *Carousel) Index() int {
	return c.index
}

// Label resolves the current slot to what the display shows: a truncated
// interface name with its address, or the bare internet address on the
// synthetic last slot.
func (c *Carousel) Label(addrs []hostinfo.Addr, internet string) (name, addr string) {
	if len(addrs) == 0 {
		return "", NoConnection
	}

	if c.index < len(addrs) {
		slot := addrs[c.index]
		return truncate(slot.Name, shortNameWidth), slot.IP
	}

	return "", internet
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}

	return s[:width]
}
