package tty

import (
	"errors"
	"testing"
	"time"
)

type fakeDevice struct {
	mode     string
	rawErr   error
	writeErr error
	short    bool
	reply    string
	waitErr  error
	readErr  error
	written  []byte
	waited   time.Duration
	restores int
}

func newFakeDevice(reply string) *fakeDevice {
	return &fakeDevice{mode: "cooked", reply: reply}
}

func (d *fakeDevice) MakeRaw() (func() error, error) {
	if d.rawErr != nil {
		return nil, d.rawErr
	}
	prev := d.mode
	d.mode = "raw"
	return func() error {
		d.mode = prev
		d.restores++
		return nil
	}, nil
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	if d.writeErr != nil {
		return 0, d.writeErr
	}
	if d.short {
		d.written = append(d.written, p[:len(p)-1]...)
		return len(p) - 1, nil
	}
	d.written = append(d.written, p...)
	return len(p), nil
}

func (d *fakeDevice) WaitReadable(timeout time.Duration) (bool, error) {
	d.waited = timeout
	if d.waitErr != nil {
		return false, d.waitErr
	}
	return d.reply != "", nil
}

func (d *fakeDevice) Read(p []byte) (int, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}
	return copy(p, d.reply), nil
}

var testRequest = Request{Name: "DA1", Seq: "\x1b[c", Prefix: "\x1b[?", Suffix: "c"}

func TestSendStripsFraming(t *testing.T) {
	dev := newFakeDevice("\x1b[?65;1;9c")
	tr := NewTransport(dev, FixedDelay(10*time.Millisecond), nil)

	reply, ok, err := tr.Send(testRequest)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if !ok {
		t.Fatal("Send() reported no reply")
	}
	if reply != "65;1;9" {
		t.Errorf("Send() = %q, want %q", reply, "65;1;9")
	}
	if string(dev.written) != "\x1b[c" {
		t.Errorf("written = %q, want %q", dev.written, "\x1b[c")
	}
	if dev.waited != 10*time.Millisecond {
		t.Errorf("waited %v, want 10ms", dev.waited)
	}
}

func TestSendKeepsMalformedReply(t *testing.T) {
	dev := newFakeDevice("\x1bP1+r544e=\x1b\\")
	tr := NewTransport(dev, FixedDelay(time.Millisecond), nil)

	reply, ok, err := tr.Send(testRequest)
	if err != nil || !ok {
		t.Fatalf("Send() = %q, %v, %v", reply, ok, err)
	}
	if reply != "\x1bP1+r544e=\x1b\\" {
		t.Errorf("Send() = %q, want raw reply", reply)
	}
}

func TestSendRestoresMode(t *testing.T) {
	tests := []struct {
		name    string
		dev     *fakeDevice
		wantErr error
		wantOK  bool
	}{
		{"reply", newFakeDevice("\x1b[?6c"), nil, true},
		{"timeout", newFakeDevice(""), nil, false},
		{"write failure", &fakeDevice{mode: "cooked", writeErr: errors.New("EIO")}, errors.New(""), false},
		{"short write", &fakeDevice{mode: "cooked", short: true}, ErrShortWrite, false},
		{"poll failure", &fakeDevice{mode: "cooked", waitErr: errors.New("EBADF")}, nil, false},
		{"read failure", &fakeDevice{mode: "cooked", reply: "x", readErr: errors.New("EIO")}, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr := NewTransport(tc.dev, FixedDelay(time.Millisecond), nil)
			_, ok, err := tr.Send(testRequest)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if tc.wantErr != nil && err == nil {
				t.Fatal("Send() expected error")
			}
			if errors.Is(tc.wantErr, ErrShortWrite) && !errors.Is(err, ErrShortWrite) {
				t.Errorf("Send() error = %v, want ErrShortWrite", err)
			}
			if ok != tc.wantOK {
				t.Errorf("Send() ok = %v, want %v", ok, tc.wantOK)
			}
			if tc.dev.mode != "cooked" {
				t.Errorf("mode after Send() = %q, want cooked", tc.dev.mode)
			}
			if tc.dev.restores != 1 {
				t.Errorf("restore called %d times, want 1", tc.dev.restores)
			}
		})
	}
}

func TestSendNotApplicable(t *testing.T) {
	dev := &fakeDevice{mode: "cooked", rawErr: errors.New("inappropriate ioctl")}
	tr := NewTransport(dev, FixedDelay(time.Millisecond), nil)

	_, ok, err := tr.Send(testRequest)
	if !errors.Is(err, ErrNotApplicable) {
		t.Fatalf("Send() error = %v, want ErrNotApplicable", err)
	}
	if ok {
		t.Error("Send() reported a reply")
	}
	if len(dev.written) != 0 {
		t.Errorf("request written despite failed mode switch: %q", dev.written)
	}
}

func TestSendUsesCurrentDelay(t *testing.T) {
	dev := newFakeDevice("")
	delay := FixedDelay(5 * time.Millisecond)
	tr := NewTransport(dev, delay, nil)

	_, _, _ = tr.Send(testRequest)
	if dev.waited != 5*time.Millisecond {
		t.Fatalf("waited %v, want 5ms", dev.waited)
	}

	delay.Set(50 * time.Millisecond)
	_, _, _ = tr.Send(testRequest)
	if dev.waited != 50*time.Millisecond {
		t.Errorf("waited %v after override, want 50ms", dev.waited)
	}
}

func TestUnframe(t *testing.T) {
	tests := []struct {
		reply, prefix, suffix, want string
	}{
		{"\x1b[>1;2c", "\x1b[>", "c", "1;2"},
		{"\x1b[>c", "\x1b[>", "c", "\x1b[>c"},
		{"garbage", "\x1b[>", "c", "garbage"},
		{"\x1bP!|7E565445\x1b\\", "\x1bP!|", "\x1b\\", "7E565445"},
		{"\x1b]702;rxvt\x1b", "\x1b]702;", "\x1b", "rxvt"},
		{"\x1b[>1;2", "\x1b[>", "c", "\x1b[>1;2"},
	}
	for _, tc := range tests {
		if got := Unframe(tc.reply, tc.prefix, tc.suffix); got != tc.want {
			t.Errorf("Unframe(%q) = %q, want %q", tc.reply, got, tc.want)
		}
	}
}

func TestCursorPosition(t *testing.T) {
	dev := newFakeDevice("\x1b[12;40R")
	tr := NewTransport(dev, FixedDelay(time.Millisecond), nil)

	pos, err := CursorPosition(tr)
	if err != nil {
		t.Fatalf("CursorPosition() error = %v", err)
	}
	if pos != (Position{Col: 40, Row: 12}) {
		t.Errorf("CursorPosition() = %+v", pos)
	}

	_, err = CursorPosition(NewTransport(newFakeDevice(""), FixedDelay(time.Millisecond), nil))
	if !errors.Is(err, ErrMalformedReply) {
		t.Errorf("CursorPosition() without reply error = %v, want ErrMalformedReply", err)
	}
}

func TestParseCursorPosition(t *testing.T) {
	tests := []struct {
		body    string
		want    Position
		wantErr bool
	}{
		{"1;1", Position{Col: 1, Row: 1}, false},
		{"24;80", Position{Col: 80, Row: 24}, false},
		{"24", Position{}, true},
		{"a;1", Position{}, true},
		{"0;1", Position{}, true},
		{"1;", Position{}, true},
	}
	for _, tc := range tests {
		got, err := ParseCursorPosition(tc.body)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCursorPosition(%q) error = %v, wantErr %v", tc.body, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCursorPosition(%q) = %+v, want %+v", tc.body, got, tc.want)
		}
	}
}
