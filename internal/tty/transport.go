package tty

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// MaxReplySize bounds the single read performed per request. No reply of
// the supported requests comes close.
const MaxReplySize = 4096

// Device is the terminal side of a Transport.
type Device interface {
	// MakeRaw switches the device to raw mode and returns a function that
	// restores the previous mode.
	MakeRaw() (restore func() error, err error)

	// Write writes the request bytes.
	Write(p []byte) (int, error)

	// WaitReadable blocks until input is available or the timeout elapses.
	WaitReadable(timeout time.Duration) (bool, error)

	// Read performs one read of the available input.
	Read(p []byte) (int, error)
}

// Request is one control sequence together with the framing of the reply
// it provokes.
type Request struct {
	Name   string
	Seq    string
	Prefix string
	Suffix string
}

// Unframe strips prefix and suffix from reply when both are present and the
// reply is longer than the framing alone. Anything else is returned as is.
func Unframe(reply, prefix, suffix string) string {
	if len(reply) > len(prefix)+len(suffix) && strings.HasPrefix(reply, prefix) && strings.HasSuffix(reply, suffix) {
		return reply[len(prefix) : len(reply)-len(suffix)]
	}
	return reply
}

// Transport sends requests to a Device one at a time.
type Transport struct {
	dev    Device
	delay  *Delay
	logger *slog.Logger
}

// NewTransport creates a transport. A nil delay selects a fresh environment
// derived Delay; a nil logger selects slog.Default().
func NewTransport(dev Device, delay *Delay, logger *slog.Logger) *Transport {
	if delay == nil {
		delay = NewDelay()
	}
	return &Transport{dev: dev, delay: delay, logger: logger}
}

func (t *Transport) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

// Send writes req and waits for the reply. It returns the unframed payload
// and whether a reply arrived at all. An error means the request was not
// sent: ErrNotApplicable when raw mode could not be entered, ErrShortWrite
// or the write error otherwise. The previous terminal mode is restored on
// every path once raw mode was entered.
func (t *Transport) Send(req Request) (payload string, replied bool, err error) {
	restore, err := t.dev.MakeRaw()
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrNotApplicable, err)
	}
	defer func() {
		if rerr := restore(); rerr != nil {
			t.log().Warn("restoring terminal mode failed", "request", req.Name, "error", rerr)
		}
	}()

	n, err := t.dev.Write([]byte(req.Seq))
	if err != nil {
		return "", false, fmt.Errorf("writing %s request: %w", req.Name, err)
	}
	if n != len(req.Seq) {
		return "", false, fmt.Errorf("writing %s request: %w (%d of %d bytes)", req.Name, ErrShortWrite, n, len(req.Seq))
	}

	delay := t.delay.Get()
	ready, err := t.dev.WaitReadable(delay)
	if err != nil {
		t.log().Debug("waiting for reply failed", "request", req.Name, "error", err)
		return "", false, nil
	}
	if !ready {
		t.log().Debug("no reply", "request", req.Name, "delay", delay)
		return "", false, nil
	}

	buf := make([]byte, MaxReplySize)
	n, err = t.dev.Read(buf)
	if err != nil || n <= 0 {
		t.log().Debug("empty reply", "request", req.Name, "error", err)
		return "", false, nil
	}

	reply := Unframe(string(buf[:n]), req.Prefix, req.Suffix)
	t.log().Debug("reply", "request", req.Name, "bytes", n)
	return reply, true, nil
}
