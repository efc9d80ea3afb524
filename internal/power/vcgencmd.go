package power

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"codeberg.org/renvik/pistat/internal/errors"
)

const commandTimeout = 2 * time.Second

// Tool invokes the vendor power-diagnostic commands.
type Tool interface {
	ReadADC(ctx context.Context) (string, error)
	Throttled(ctx context.Context) (string, error)
}

// Vcgencmd shells out to the Raspberry Pi firmware tool. Every invocation is
// bounded by a short timeout so a wedged firmware call cannot stall the
// sampling loop.
type Vcgencmd struct {
	path    string
	timeout time.Duration
}

func NewVcgencmd() *Vcgencmd {
	return &Vcgencmd{
		path:    "vcgencmd",
		timeout: commandTimeout,
	}
}

// ReadADC returns the raw PMIC ADC dump. Not all board revisions support
// this; the caller treats failure as degraded, not fatal.
func (v *Vcgencmd) ReadADC(ctx context.Context) (string, error) {
	return v.run(ctx, "pmic_read_adc")
}

// Throttled returns the raw throttling status line.
func (v *Vcgencmd) Throttled(ctx context.Context) (string, error) {
	out, err := v.run(ctx, "get_throttled")
	if err != nil {
		return "", errors.New().Wrap(ErrThrottleStatus, err)
	}

	return out, nil
}

func (v *Vcgencmd) run(ctx context.Context, args ...string) (string, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, v.path, args...).Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", errFactory.Wrap(errors.ErrTimeout, ctx.Err())
	}
	if err != nil {
		return "", errFactory.Wrap(ErrToolFailed, err).WithData(strings.Join(args, " "))
	}

	return strings.TrimSpace(string(out)), nil
}
