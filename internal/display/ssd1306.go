package display

import (
	"image"

	"codeberg.org/renvik/pistat/internal/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"
)

// OpenSSD1306 opens the OLED panel over I2C at the controller's standard
// address. Returned errors cover both "no such device" and transport
// failures; the caller treats them all as a still-absent display.
func OpenSSD1306(busName string, width, height int) (Driver, error) {
	errFactory := errors.New()

	// host.Init memoizes, so retrying every acquisition is cheap.
	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrOpenFailed, err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, errFactory.Wrap(ErrOpenFailed, err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = width
	opts.H = height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		bus.Close()
		return nil, errFactory.Wrap(ErrOpenFailed, err)
	}

	return &panel{bus: bus, dev: dev}, nil
}

type panel struct {
	bus i2c.BusCloser
	dev *ssd1306.Dev
}

func (p *panel) Draw(img image.Image) error {
	if err := p.dev.Draw(p.dev.Bounds(), img, image.Point{}); err != nil {
		return errors.New().Wrap(ErrDrawFailed, err)
	}

	return nil
}

func (p *panel) SetContrast(level byte) error {
	if err := p.dev.SetContrast(level); err != nil {
		return errors.New().Wrap(ErrDrawFailed, err)
	}

	return nil
}

func (p *panel) Clear() error {
	blank := image1bit.NewVerticalLSB(p.dev.Bounds())
	if err := p.dev.Draw(p.dev.Bounds(), blank, image.Point{}); err != nil {
		return errors.New().Wrap(ErrDrawFailed, err)
	}

	return nil
}

func (p *panel) Close() error {
	errFactory := errors.New()

	haltErr := p.dev.Halt()
	if err := p.bus.Close(); err != nil {
		return errFactory.Wrap(ErrCloseFailed, err)
	}
	if haltErr != nil {
		return errFactory.Wrap(ErrCloseFailed, haltErr)
	}

	return nil
}
