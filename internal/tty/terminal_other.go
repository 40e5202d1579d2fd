//go:build !unix

package tty

import "time"

// DefaultPath is empty on platforms without a controlling terminal device.
const DefaultPath = ""

// Terminal is unavailable on this platform.
type Terminal struct{}

// Open always fails on this platform.
func Open() (*Terminal, error) {
	return nil, ErrNoTerminal
}

// OpenPath always fails on this platform.
func OpenPath(string) (*Terminal, error) {
	return nil, ErrNoTerminal
}

func (t *Terminal) Fd() int {
	return -1
}

func (t *Terminal) Path() string {
	return ""
}

func (t *Terminal) MakeRaw() (func() error, error) {
	return nil, ErrNotApplicable
}

func (t *Terminal) Write(p []byte) (int, error) {
	return 0, ErrNoTerminal
}

func (t *Terminal) Read(p []byte) (int, error) {
	return 0, ErrNoTerminal
}

func (t *Terminal) WaitReadable(time.Duration) (bool, error) {
	return false, ErrNoTerminal
}

func (t *Terminal) Close() error {
	return nil
}
