package display

import (
	"image"

	"codeberg.org/renvik/pistat/internal/errors"
)

const (
	ErrOpenFailed  = errors.ErrorCode("display_open_failed")
	ErrDrawFailed  = errors.ErrorCode("display_draw_failed")
	ErrCloseFailed = errors.ErrorCode("display_close_failed")
	ErrNotPresent  = errors.ErrorCode("display_not_present")
)

// Driver is the output device contract the session manages. I2C transports
// can drop out at any moment, so every call may fail.
type Driver interface {
	Draw(img image.Image) error
	SetContrast(level byte) error
	Clear() error
	Close() error
}

// Opener acquires a fresh driver handle. It is retried by the session for
// as long as the device stays absent.
type Opener func() (Driver, error)
