//go:build linux

package tty

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// openPair opens a pseudo-terminal and a Terminal on its slave side.
func openPair(t *testing.T) (*os.File, *Terminal) {
	t.Helper()
	ptmx, slave, err := pty.Open()
	if err != nil {
		t.Skipf("pty not available: %v", err)
	}
	t.Cleanup(func() {
		ptmx.Close()
		slave.Close()
	})

	term, err := OpenPath(slave.Name())
	if err != nil {
		t.Fatalf("OpenPath(%s) error = %v", slave.Name(), err)
	}
	t.Cleanup(func() { term.Close() })
	return ptmx, term
}

func termios(t *testing.T, fd int) unix.Termios {
	t.Helper()
	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		t.Fatalf("IoctlGetTermios() error = %v", err)
	}
	return *tio
}

// answer reads one request from the master side and writes reply.
func answer(ptmx *os.File, reply string) <-chan []byte {
	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := ptmx.Read(buf)
		got <- buf[:n]
		if reply != "" {
			_, _ = ptmx.Write([]byte(reply))
		}
	}()
	return got
}

func TestTerminalSendReply(t *testing.T) {
	ptmx, term := openPair(t)
	before := termios(t, term.Fd())

	requests := answer(ptmx, "\x1b[>1;4000;29c")
	tr := NewTransport(term, FixedDelay(2*time.Second), nil)

	reply, ok, err := tr.Send(Request{Name: "DA2", Seq: "\x1b[>c", Prefix: "\x1b[>", Suffix: "c"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !ok || reply != "1;4000;29" {
		t.Errorf("Send() = %q, %v; want %q, true", reply, ok, "1;4000;29")
	}
	if req := <-requests; !bytes.Equal(req, []byte("\x1b[>c")) {
		t.Errorf("emulator saw %q", req)
	}
	if after := termios(t, term.Fd()); after != before {
		t.Errorf("terminal mode not restored:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestTerminalSendTimeout(t *testing.T) {
	ptmx, term := openPair(t)
	before := termios(t, term.Fd())

	requests := answer(ptmx, "")
	tr := NewTransport(term, FixedDelay(30*time.Millisecond), nil)

	start := time.Now()
	_, ok, err := tr.Send(Request{Name: "DA3", Seq: "\x1b[=c", Prefix: "\x1bP!|", Suffix: "\x1b\\"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if ok {
		t.Error("Send() reported a reply from a silent emulator")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Send() returned after %v, before the delay elapsed", elapsed)
	}
	<-requests
	if after := termios(t, term.Fd()); after != before {
		t.Errorf("terminal mode not restored after timeout")
	}
}

func TestTerminalRawModeDuringSend(t *testing.T) {
	ptmx, term := openPair(t)

	modes := make(chan unix.Termios, 1)
	go func() {
		buf := make([]byte, 64)
		_, _ = ptmx.Read(buf)
		if tio, err := unix.IoctlGetTermios(term.Fd(), unix.TCGETS); err == nil {
			modes <- *tio
		} else {
			modes <- unix.Termios{Lflag: ^uint32(0)}
		}
		_, _ = ptmx.Write([]byte("\x1b[?6c"))
	}()

	tr := NewTransport(term, FixedDelay(2*time.Second), nil)
	if _, _, err := tr.Send(Request{Name: "DA1", Seq: "\x1b[c", Prefix: "\x1b[?", Suffix: "c"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	raw := <-modes
	if raw.Lflag&(unix.ECHO|unix.ICANON|unix.ISIG) != 0 {
		t.Errorf("terminal not in raw mode during request: lflag %#x", raw.Lflag)
	}
}

func TestTerminalRestoreDiscardsLateInput(t *testing.T) {
	ptmx, term := openPair(t)

	restore, err := term.MakeRaw()
	if err != nil {
		t.Fatalf("MakeRaw() error = %v", err)
	}
	if _, err := ptmx.Write([]byte("\x1b[?64;1c\n")); err != nil {
		t.Fatalf("writing late reply: %v", err)
	}
	if ok, err := term.WaitReadable(2 * time.Second); err != nil || !ok {
		t.Fatalf("WaitReadable() = %v, %v; want the late reply queued", ok, err)
	}
	if err := restore(); err != nil {
		t.Fatalf("restore() error = %v", err)
	}

	ok, err := term.WaitReadable(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("WaitReadable() error = %v", err)
	}
	if ok {
		buf := make([]byte, 64)
		n, _ := term.Read(buf)
		t.Errorf("input left queued after restore: %q", buf[:n])
	}
}

func TestTerminalWaitReadableFullTimeout(t *testing.T) {
	_, term := openPair(t)

	for _, timeout := range []time.Duration{1500 * time.Microsecond, 10*time.Millisecond + 300*time.Microsecond} {
		start := time.Now()
		ok, err := term.WaitReadable(timeout)
		if err != nil {
			t.Fatalf("WaitReadable(%v) error = %v", timeout, err)
		}
		if ok {
			t.Fatalf("WaitReadable(%v) reported input on a silent pty", timeout)
		}
		if elapsed := time.Since(start); elapsed < timeout {
			t.Errorf("WaitReadable(%v) returned after %v", timeout, elapsed)
		}
	}
}
