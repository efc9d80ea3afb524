package carousel_test

import (
	"testing"
	"time"

	"codeberg.org/renvik/pistat/internal/carousel"
	"codeberg.org/renvik/pistat/internal/hostinfo"
	"github.com/stretchr/testify/assert"
)

func TestAdvanceRotation(t *testing.T) {
	start := time.Now()
	c := carousel.New(5*time.Second, start)
	assert.Equal(t, 0, c.Index())

	// Two interfaces plus the internet slot.
	slots := carousel.Slots(2)
	assert.Equal(t, 3, slots)

	c.Advance(start.Add(time.Second), slots)
	assert.Equal(t, 0, c.Index(), "interval not yet elapsed")

	c.Advance(start.Add(5*time.Second), slots)
	assert.Equal(t, 1, c.Index())

	c.Advance(start.Add(10*time.Second), slots)
	assert.Equal(t, 2, c.Index())

	c.Advance(start.Add(15*time.Second), slots)
	assert.Equal(t, 0, c.Index(), "index wraps back to the first slot")
}

func TestAdvanceClampsShrunkSlotCount(t *testing.T) {
	start := time.Now()
	c := carousel.New(5*time.Second, start)

	c.Advance(start.Add(5*time.Second), carousel.Slots(2))
	c.Advance(start.Add(10*time.Second), carousel.Slots(2))
	assert.Equal(t, 2, c.Index())

	// All interfaces went away between ticks.
	c.Advance(start.Add(11*time.Second), carousel.Slots(0))
	assert.Equal(t, 0, c.Index())

	// Down to one interface: index must land inside [0, 2).
	c.Advance(start.Add(5*time.Second), carousel.Slots(2))
	c.Advance(start.Add(10*time.Second), carousel.Slots(2))
	c.Advance(start.Add(11*time.Second), carousel.Slots(1))
	assert.Less(t, c.Index(), 2)
}

func TestLabel(t *testing.T) {
	start := time.Now()
	addrs := []hostinfo.Addr{
		{Name: "wlan0", IP: "192.168.1.5"},
		{Name: "eth0", IP: "10.0.0.2"},
	}

	c := carousel.New(3*time.Second, start)

	name, addr := c.Label(addrs, "192.168.1.5")
	assert.Equal(t, "wlan", name, "interface name is truncated to the short width")
	assert.Equal(t, "192.168.1.5", addr)

	c.Advance(start.Add(3*time.Second), carousel.Slots(len(addrs)))
	name, addr = c.Label(addrs, "192.168.1.5")
	assert.Equal(t, "eth0", name)
	assert.Equal(t, "10.0.0.2", addr)

	// Synthetic internet slot carries no interface name.
	c.Advance(start.Add(6*time.Second), carousel.Slots(len(addrs)))
	name, addr = c.Label(addrs, "192.168.1.5")
	assert.Empty(t, name)
	assert.Equal(t, "192.168.1.5", addr)
}

func TestLabelNoConnection(t *testing.T) {
	c := carousel.New(3*time.Second, time.Now())

	// Placeholder regardless of whatever index was left behind.
	c.Advance(time.Now().Add(time.Minute), carousel.Slots(2))
	name, addr := c.Label(nil, "ignored")
	assert.Empty(t, name)
	assert.Equal(t, carousel.NoConnection, addr)
}
