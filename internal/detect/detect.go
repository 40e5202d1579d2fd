package detect

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/Dicklesworthstone/termdetect/internal/tty"
)

// requestDelay is shared by every detection that is not given its own Delay.
var requestDelay = tty.NewDelay()

// SetRequestDelay overrides how long each probe waits for its reply. It
// takes effect with the next probe sent. Non-positive values restore the
// default derived from DISPLAY.
func SetRequestDelay(d time.Duration) {
	requestDelay.Set(d)
}

// RequestDelay returns the current process-wide probe timeout.
func RequestDelay() time.Duration {
	return requestDelay.Get()
}

// Options configures a detection.
type Options struct {
	// Device is probed when set. Otherwise DevicePath is opened, or the
	// controlling terminal when that is empty too.
	Device     tty.Device
	DevicePath string

	// Delay overrides the process-wide request delay.
	Delay *tty.Delay

	// Getenv looks up TERM; os.Getenv when nil.
	Getenv func(string) string

	// Logger receives debug output; slog.Default() when nil.
	Logger *slog.Logger
}

// Detect probes the terminal and classifies it. It never fails: without a
// terminal, or when the terminal cannot be switched to raw mode, the
// returned Info stays unknown. Cancelling ctx stops probing between
// requests; whatever was learned so far is still classified.
func Detect(ctx context.Context, opts Options) *Info {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	delay := opts.Delay
	if delay == nil {
		delay = requestDelay
	}

	in := newInfo()

	dev := opts.Device
	if dev == nil {
		var (
			t   *tty.Terminal
			err error
		)
		if opts.DevicePath != "" {
			t, err = tty.OpenPath(opts.DevicePath)
		} else {
			t, err = tty.Open()
		}
		if err != nil {
			logger.Debug("no terminal to probe", "error", err)
			return in
		}
		defer t.Close()
		dev = t
	}

	restore := tty.SuppressJobControl()
	defer restore()

	s := &session{
		info:   in,
		tr:     tty.NewTransport(dev, delay, logger),
		getenv: getenv,
		logger: logger,
	}
	err := s.run(ctx)
	switch {
	case isAbort(err):
		logger.Debug("terminal not probed", "error", err)
		return in
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.Debug("probing stopped", "error", err)
	case err != nil:
		logger.Debug("probing failed", "error", err)
	}

	in.buildRaw()
	// Without DA1 or DA2 there is nothing to classify.
	if in.Replies.Primary.State != NotIssued || in.Replies.Secondary.State != NotIssued {
		in.classify()
	}
	return in
}
