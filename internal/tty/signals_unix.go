//go:build unix

package tty

import (
	"os"
	"os/signal"
	"syscall"
)

// SuppressJobControl ignores SIGTTOU and SIGTTIN so that a background
// process probing its terminal is not stopped by the kernel. The returned
// function puts back the default disposition of the signals that were not
// ignored before.
func SuppressJobControl() (restore func()) {
	sigs := []os.Signal{syscall.SIGTTOU, syscall.SIGTTIN}
	var reset []os.Signal
	for _, sig := range sigs {
		if !signal.Ignored(sig) {
			reset = append(reset, sig)
		}
	}
	signal.Ignore(sigs...)
	return func() {
		if len(reset) > 0 {
			signal.Reset(reset...)
		}
	}
}
