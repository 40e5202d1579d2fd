// Package tty talks to the controlling terminal on behalf of the detector.
//
// A Transport sends one request at a time: it switches the device to raw
// mode, writes the request, waits a bounded delay for input, reads a single
// reply and restores the previous mode before returning. Replies are
// returned with their expected framing stripped when the framing matches,
// and verbatim otherwise.
//
// The package also answers the two geometry questions that do not belong
// to the classification flow: the window size (TIOCGWINSZ) and the cursor
// position (CSI 6 n).
//
// # Concurrency
//
// A Device must not be shared by concurrent Send calls. Both the terminal
// mode and the read buffer are owned by the request in flight.
package tty
