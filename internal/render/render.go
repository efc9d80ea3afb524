// Package render composes 128x64 monochrome status frames for the panel.
package render

import (
	"fmt"
	"image"
	"strconv"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"codeberg.org/renvik/pistat/internal/sampler"
)

// Panel dimensions in pixels.
const (
	Width  = 128
	Height = 64
)

// Fixed frame geometry. The top row holds CPU, memory and disk, the
// bottom row holds the network carousel and the alarm area.
var (
	cpuBox   = image.Rect(0, 0, 56, 36)
	memBox   = image.Rect(57, 0, 92, 36)
	diskBox  = image.Rect(93, 0, 128, 36)
	netBox   = image.Rect(0, 37, 92, 64)
	alarmBox = image.Rect(93, 37, 128, 64)
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// Render lays out a full frame from the snapshot. slotName and slotAddr
// come from the carousel and describe the network line to show.
func (r *Renderer) Render(snap sampler.Snapshot, slotName, slotAddr string) image.Image {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))

	r.drawCPU(img, snap)
	r.drawMemory(img, snap)
	r.drawDisk(img, snap)
	r.drawNet(img, snap, slotName, slotAddr)
	r.drawAlarm(img, snap)

	return img
}

// Splash is the boot frame shown while the agent starts up.
func (r *Renderer) Splash() image.Image {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))
	full := img.Bounds()

	frameRect(img, full)
	centerText(img, full, Width/2, 28, "pistat")
	centerText(img, full, Width/2, 42, "starting up")

	return img
}

func (r *Renderer) drawCPU(img *image1bit.VerticalLSB, snap sampler.Snapshot) {
	frameRect(img, cpuBox)
	gauge(img, image.Rect(46, 2, 54, 34), snap.CPU.Percent)

	cx := 23
	centerText(img, cpuBox, cx, 10, formatValue(snap.CPU.Percent)+"%")
	centerText(img, cpuBox, cx, 20, formatValue(snap.CPU.FreqGHz)+"GHz")
	centerText(img, cpuBox, cx, 30, formatValue(snap.CPU.TempC)+"C")
}

func (r *Renderer) drawMemory(img *image1bit.VerticalLSB, snap sampler.Snapshot) {
	frameRect(img, memBox)
	gauge(img, image.Rect(82, 2, 90, 34), snap.Memory.Percent)

	cx := 69
	centerText(img, memBox, cx, 14, formatValue(snap.Memory.UsedGB))
	centerText(img, memBox, cx, 28, formatValue(snap.Memory.TotalGB))
}

func (r *Renderer) drawDisk(img *image1bit.VerticalLSB, snap sampler.Snapshot) {
	frameRect(img, diskBox)
	gauge(img, image.Rect(118, 2, 126, 34), snap.Disk.Percent)

	cx := 105
	centerText(img, diskBox, cx, 14, formatValue(snap.Disk.UsedGB))
	centerText(img, diskBox, cx, 28, formatValue(snap.Disk.TotalGB))
}

func (r *Renderer) drawNet(img *image1bit.VerticalLSB, snap sampler.Snapshot, slotName, slotAddr string) {
	frameRect(img, netBox)

	if slotName != "" {
		text(img, netBox, 3, 46, slotName)
		centerText(img, netBox, 57, 46, slotAddr)
	} else {
		centerText(img, netBox, 46, 46, slotAddr)
	}

	centerText(img, netBox, 46, 55, fmt.Sprintf("D %s Mb", formatValue(snap.Net.DownMbps)))
	centerText(img, netBox, 46, 63, fmt.Sprintf("U %s Mb", formatValue(snap.Net.UpMbps)))
}

func (r *Renderer) drawAlarm(img *image1bit.VerticalLSB, snap sampler.Snapshot) {
	frameRect(img, alarmBox)

	t := snap.Throttle
	if t.Any() {
		if t.UnderVoltage {
			text(img, alarmBox, 97, 48, "U")
		}
		if t.ThermalThrottled {
			text(img, alarmBox, 108, 48, "H")
		}
		if t.FreqCapped {
			text(img, alarmBox, 119, 48, "F")
		}
		if t.UnderVoltageSince {
			text(img, alarmBox, 101, 60, "u")
		}
		if t.ThermalSince {
			text(img, alarmBox, 115, 60, "h")
		}
		return
	}

	cx := 110
	if w := snap.Power.TotalWatts; w > 0 {
		centerText(img, alarmBox, cx, 48, "PWR")
		centerText(img, alarmBox, cx, 60, formatValue(w)+"W")
	} else {
		centerText(img, alarmBox, cx, 53, "OK")
	}
}

// formatValue renders v with precision scaled to its magnitude so that
// labels keep a near constant width.
func formatValue(v float64) string {
	switch {
	case v < 10:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case v < 100:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
}
