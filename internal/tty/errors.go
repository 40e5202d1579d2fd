package tty

import "errors"

// Sentinel errors for the tty package.
var (
	// ErrNoTerminal is returned when the controlling terminal cannot be opened.
	ErrNoTerminal = errors.New("no controlling terminal")

	// ErrNotApplicable is returned when the device refuses the switch to raw
	// mode, typically because the process runs in the background.
	ErrNotApplicable = errors.New("terminal mode switch not applicable")

	// ErrShortWrite is returned when a request could not be written in full.
	ErrShortWrite = errors.New("short write to terminal")

	// ErrMalformedReply is returned when a geometry reply cannot be parsed.
	ErrMalformedReply = errors.New("malformed terminal reply")
)
