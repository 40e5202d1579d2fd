//go:build !unix

package tty

// SuppressJobControl is a no-op on platforms without job control signals.
func SuppressJobControl() (restore func()) {
	return func() {}
}
