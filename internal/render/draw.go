package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// clipped restricts writes to a rectangle so text cannot bleed into a
// neighboring frame.
type clipped struct {
	draw.Image
	rect image.Rectangle
}

func (c *clipped) Set(x, y int, col color.Color) {
	if (image.Point{X: x, Y: y}).In(c.rect) {
		c.Image.Set(x, y, col)
	}
}

func setPixel(dst draw.Image, x, y int) {
	dst.Set(x, y, image1bit.On)
}

func fillRect(dst draw.Image, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			setPixel(dst, x, y)
		}
	}
}

// frameRect draws a one pixel outline with clipped corners.
func frameRect(dst draw.Image, r image.Rectangle) {
	for x := r.Min.X + 2; x < r.Max.X-2; x++ {
		setPixel(dst, x, r.Min.Y)
		setPixel(dst, x, r.Max.Y-1)
	}
	for y := r.Min.Y + 2; y < r.Max.Y-2; y++ {
		setPixel(dst, r.Min.X, y)
		setPixel(dst, r.Max.X-1, y)
	}
	setPixel(dst, r.Min.X+1, r.Min.Y+1)
	setPixel(dst, r.Max.X-2, r.Min.Y+1)
	setPixel(dst, r.Min.X+1, r.Max.Y-2)
	setPixel(dst, r.Max.X-2, r.Max.Y-2)
}

// gauge draws a vertical bar whose fill rises with percent. A one pixel
// gap separates the fill from the outline.
func gauge(dst draw.Image, r image.Rectangle, percent float64) {
	frameRect(dst, r)
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	inner := r.Inset(2)
	h := int(float64(inner.Dy())*percent/100 + 0.5)
	if h <= 0 {
		return
	}
	fillRect(dst, image.Rect(inner.Min.X, inner.Max.Y-h, inner.Max.X, inner.Max.Y))
}

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// text draws s with the baseline at y, clipped to bounds.
func text(dst draw.Image, bounds image.Rectangle, x, y int, s string) {
	d := font.Drawer{
		Dst:  &clipped{Image: dst, rect: bounds},
		Src:  image.NewUniform(image1bit.On),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// centerText draws s horizontally centered on cx.
func centerText(dst draw.Image, bounds image.Rectangle, cx, y int, s string) {
	text(dst, bounds, cx-textWidth(s)/2, y, s)
}
