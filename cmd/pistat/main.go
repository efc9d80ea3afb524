package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/renvik/pistat/internal/carousel"
	"codeberg.org/renvik/pistat/internal/config"
	"codeberg.org/renvik/pistat/internal/display"
	"codeberg.org/renvik/pistat/internal/hostinfo"
	"codeberg.org/renvik/pistat/internal/logger"
	"codeberg.org/renvik/pistat/internal/pid"
	"codeberg.org/renvik/pistat/internal/power"
	"codeberg.org/renvik/pistat/internal/render"
	"codeberg.org/renvik/pistat/internal/sampler"
)

const splashHold = 3 * time.Second

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func run(ctx context.Context) error {
	host := hostinfo.New(cfg.Mountpoint, cfg.ProbeAddr)
	tool := power.NewVcgencmd()

	var sensor power.Sensor
	if cfg.Sensor {
		s, err := power.OpenINA219(cfg.I2CBus, cfg.SensorAddr)
		if err != nil {
			logger.Warn().Err(err).Msg("Power sensor unavailable")
		} else {
			sensor = s
			defer sensor.Close()
		}
	}

	smp := sampler.New(host, tool, sensor)
	rend := render.New()
	car := carousel.New(time.Duration(cfg.RotateInterval)*time.Second, time.Now())

	sess := display.NewSession(func() (display.Driver, error) {
		return display.OpenSSD1306(cfg.I2CBus, render.Width, render.Height)
	}).WithSplash(rend.Splash(), splashHold)
	defer sess.Close()

	interval := time.Duration(cfg.Interval) * time.Second
	var lastPowerLog time.Time

	for {
		if !sess.Present() {
			sess.Acquire()
		}

		if sess.Present() {
			snap, err := smp.Sample(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("sampling failed")
			} else {
				car.Advance(snap.Taken, carousel.Slots(len(snap.Net.Addrs)))
				name, addr := car.Label(snap.Net.Addrs, snap.Net.Internet)
				if err := sess.Show(rend.Render(snap, name, addr)); err != nil {
					logger.Debug().Err(err).Msg("frame not shown")
				}
				lastPowerLog = logPower(snap, lastPowerLog)
			}
		}

		sleep := interval
		if !sess.Present() {
			// No point sampling at full rate with nothing to show,
			// but keep probing for a plugged-in panel.
			sleep = interval / 2
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(sleep):
		}
	}
}

// logPower reports rail readings at the configured cadence. Returns the
// time of the last report.
func logPower(snap sampler.Snapshot, last time.Time) time.Time {
	if cfg.PowerLogInterval <= 0 || len(snap.Power.Rails) == 0 {
		return last
	}
	if !last.IsZero() && snap.Taken.Sub(last) < time.Duration(cfg.PowerLogInterval)*time.Second {
		return last
	}

	ev := logger.Info().Float64("total_w", snap.Power.TotalWatts)
	for _, name := range snap.Power.Rails.Names() {
		ev = ev.Float64(name+"_w", snap.Power.Rails[name].Watts)
	}
	ev.Msg("Power rails")

	return snap.Taken
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
