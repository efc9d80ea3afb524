// Package display owns the lifecycle of the output device: acquisition,
// loss detection and reacquisition, without ever taking the sampling loop
// down with it.
package display

import (
	"image"
	"time"

	"codeberg.org/renvik/pistat/internal/errors"
	"codeberg.org/renvik/pistat/internal/logger"
)

// State is where the session is in the device lifecycle.
type State int

const (
	Absent State = iota
	Acquiring
	Present
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Acquiring:
		return "acquiring"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

const contrastLevel = 1

// Session wraps at most one live device handle. Exactly one goroutine, the
// scheduler, transitions it.
type Session struct {
	open   Opener
	drv    Driver
	state  State
	splash image.Image
	hold   time.Duration
	shown  bool
	sleep  func(time.Duration)
}

func NewSession(open Opener) *Session {
	return &Session{
		open:  open,
		sleep: time.Sleep,
	}
}

// WithSplash sets a startup frame held on screen for the given delay after
// the first successful acquisition.
func (s *Session) WithSplash(img image.Image, hold time.Duration) *Session {
	s.splash = img
	s.hold = hold

	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Present() bool {
	return s.state == Present
}

// Acquire attempts to open the device if it is not already held. Failure is
// logged and leaves the session Absent; the scheduler simply tries again
// next tick.
func (s *Session) Acquire() bool {
	if s.state == Present {
		return true
	}

	s.state = Acquiring
	drv, err := s.open()
	if err != nil {
		logger.Debug().Err(err).Msg("Display not found")
		s.state = Absent
		return false
	}

	s.drv = drv
	s.state = Present
	logger.Info().Msg("Display acquired")

	if s.splash != nil && !s.shown {
		s.shown = true
		if err := drv.Draw(s.splash); err != nil {
			s.release(err)
			return false
		}
		s.sleep(s.hold)
	}

	return true
}

// Show pushes one finished frame to the device. Any I/O failure releases
// the handle and demotes the session to Absent.
func (s *Session) Show(frame image.Image) error {
	if s.state != Present {
		return errors.New().New(ErrNotPresent)
	}

	if err := s.drv.SetContrast(contrastLevel); err != nil {
		s.release(err)
		return err
	}

	if err := s.drv.Draw(frame); err != nil {
		s.release(err)
		return err
	}

	return nil
}

// Close clears the panel and releases the handle. On shutdown the device is
// acquired first if it was lost, best-effort, so a disconnected panel does
// not stay frozen on the last frame when it is plugged back in.
func (s *Session) Close() {
	if s.state != Present {
		if !s.Acquire() {
			return
		}
	}

	if err := s.drv.Clear(); err != nil {
		logger.Debug().Err(err).Msg("Failed to clear display")
	}
	if err := s.drv.Close(); err != nil {
		logger.Debug().Err(err).Msg("Failed to close display")
	}
	s.drv = nil
	s.state = Absent
}

func (s *Session) release(err error) {
	logger.Warn().Err(err).Msg("Display lost")
	if closeErr := s.drv.Close(); closeErr != nil {
		logger.Debug().Err(closeErr).Msg("Failed to close lost display")
	}
	s.drv = nil
	s.state = Absent
}
