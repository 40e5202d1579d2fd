package tty

import (
	"os"
	"sync"
	"time"
)

const (
	// LocalDelay is the reply timeout for an emulator on the local display.
	LocalDelay = 100 * time.Millisecond

	// RemoteDelay is the reply timeout when the display is remote.
	RemoteDelay = 500 * time.Millisecond
)

// DefaultDelay derives the reply timeout from the environment. A DISPLAY
// value that does not start with a colon names a remote X server, so the
// replies have to cross the network.
func DefaultDelay(getenv func(string) string) time.Duration {
	if getenv == nil {
		getenv = os.Getenv
	}
	if display := getenv("DISPLAY"); display != "" && display[0] != ':' {
		return RemoteDelay
	}
	return LocalDelay
}

// Delay holds the reply timeout used by a Transport. The value is derived
// from the environment on first use unless Set was called before. Set may be
// called at any time; it affects the requests sent afterwards.
type Delay struct {
	mu     sync.Mutex
	value  time.Duration
	set    bool
	getenv func(string) string
}

// NewDelay returns a Delay that is initialised lazily from the process
// environment.
func NewDelay() *Delay {
	return &Delay{getenv: os.Getenv}
}

// NewDelayFromEnv returns a Delay that is initialised lazily from getenv.
func NewDelayFromEnv(getenv func(string) string) *Delay {
	return &Delay{getenv: getenv}
}

// FixedDelay returns a Delay with an explicit value.
func FixedDelay(d time.Duration) *Delay {
	return &Delay{value: d, set: true}
}

// Get returns the current timeout, deriving it from the environment the
// first time if no explicit value was set.
func (d *Delay) Get() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.set {
		d.value = DefaultDelay(d.getenv)
		d.set = true
	}
	return d.value
}

// Set overrides the timeout. Non-positive values restore the environment
// derived default.
func (d *Delay) Set(v time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if v <= 0 {
		d.set = false
		d.value = 0
		return
	}
	d.value = v
	d.set = true
}
