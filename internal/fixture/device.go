package fixture

import (
	"errors"
	"sync"
	"time"

	"github.com/Dicklesworthstone/termdetect/internal/detect"
)

var (
	errNotRaw   = errors.New("fixture device: request written outside raw mode")
	errRawTwice = errors.New("fixture device: raw mode entered twice")
)

// Device plays an emulator from a fixture. Each request it recognises is
// answered with the recorded reply; everything else goes unanswered.
type Device struct {
	f *Fixture

	mu       sync.Mutex
	raw      bool
	pending  []byte
	requests []detect.Probe
	restores int
}

// NewDevice returns a device answering from f.
func NewDevice(f *Fixture) *Device {
	return &Device{f: f}
}

// MakeRaw implements tty.Device.
func (d *Device) MakeRaw() (func() error, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.raw {
		return nil, errRawTwice
	}
	d.raw = true
	return func() error {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.raw = false
		d.pending = nil
		d.restores++
		return nil
	}, nil
}

// Write implements tty.Device.
func (d *Device) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.raw {
		return 0, errNotRaw
	}
	probe, ok := detect.ProbeForSequence(string(p))
	if !ok {
		return len(p), nil
	}
	d.requests = append(d.requests, probe)
	if reply, ok := d.f.reply(probe); ok {
		d.pending = []byte(reply)
	}
	return len(p), nil
}

// WaitReadable implements tty.Device. It never blocks: an ignored request
// times out at once.
func (d *Device) WaitReadable(time.Duration) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending) > 0, nil
}

// Read implements tty.Device.
func (d *Device) Read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}

// Requests returns the probes written so far, in order.
func (d *Device) Requests() []detect.Probe {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]detect.Probe(nil), d.requests...)
}

// Raw reports whether the device is in raw mode.
func (d *Device) Raw() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.raw
}

// Restores counts how often raw mode was left.
func (d *Device) Restores() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.restores
}
