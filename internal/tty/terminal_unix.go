//go:build unix

package tty

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// DefaultPath is the controlling terminal of the process.
const DefaultPath = "/dev/tty"

// Terminal is a Device backed by a terminal file descriptor.
type Terminal struct {
	fd   int
	path string
}

// Open opens the controlling terminal.
func Open() (*Terminal, error) {
	return OpenPath(DefaultPath)
}

// OpenPath opens the terminal device at path without making it the
// controlling terminal. The descriptor is non-blocking; reads are gated by
// WaitReadable.
func OpenPath(path string) (*Terminal, error) {
	if path == "" {
		path = DefaultPath
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrNoTerminal, path, err)
	}
	return &Terminal{fd: fd, path: path}, nil
}

// Fd returns the file descriptor.
func (t *Terminal) Fd() int {
	return t.fd
}

// Path returns the device path the terminal was opened from.
func (t *Terminal) Path() string {
	return t.path
}

// MakeRaw puts the terminal into raw mode. Input that is already queued is
// discarded first: it can only be a late reply to an earlier request. The
// restore func discards queued input again, so a reply arriving after its
// timeout does not reach the shell.
func (t *Terminal) MakeRaw() (func() error, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	t.drain()
	return func() error {
		t.drain()
		return term.Restore(t.fd, state)
	}, nil
}

func (t *Terminal) drain() {
	var buf [MaxReplySize]byte
	for {
		n, err := unix.Read(t.fd, buf[:])
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil || n <= 0 {
			return
		}
	}
}

// Write writes p to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	for {
		n, err := unix.Write(t.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// Read reads the available input.
func (t *Terminal) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(t.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if n < 0 {
			n = 0
		}
		return n, err
	}
}

// WaitReadable polls the terminal for input for at least timeout, unless
// input arrives first.
func (t *Terminal) WaitReadable(timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
		// Round up: poll takes milliseconds and must not return early.
		n, err := unix.Poll(fds, int((remaining+time.Millisecond-1)/time.Millisecond))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, err
		}
		if n == 0 && time.Now().Before(deadline) {
			continue
		}
		return n > 0, nil
	}
}

// Close closes the terminal.
func (t *Terminal) Close() error {
	if t.fd < 0 {
		return nil
	}
	err := unix.Close(t.fd)
	t.fd = -1
	return err
}
