package tty

import (
	"testing"
	"time"
)

func TestDefaultDelay(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    time.Duration
	}{
		{"unset", "", LocalDelay},
		{"local display", ":0", LocalDelay},
		{"local display with screen", ":1.0", LocalDelay},
		{"remote display", "buildhost:10.0", RemoteDelay},
		{"forwarded display", "localhost:10.0", RemoteDelay},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			getenv := func(key string) string {
				if key == "DISPLAY" {
					return tc.display
				}
				return ""
			}
			if got := DefaultDelay(getenv); got != tc.want {
				t.Errorf("DefaultDelay(DISPLAY=%q) = %v, want %v", tc.display, got, tc.want)
			}
		})
	}
}

func TestDefaultDelayProcessEnv(t *testing.T) {
	t.Setenv("DISPLAY", "remote:0")
	if got := DefaultDelay(nil); got != RemoteDelay {
		t.Errorf("DefaultDelay(nil) = %v, want %v", got, RemoteDelay)
	}
}

func TestDelayLazyInit(t *testing.T) {
	calls := 0
	d := NewDelayFromEnv(func(string) string {
		calls++
		return "remote:0"
	})

	if got := d.Get(); got != RemoteDelay {
		t.Errorf("Get() = %v, want %v", got, RemoteDelay)
	}
	_ = d.Get()
	if calls != 1 {
		t.Errorf("environment consulted %d times, want 1", calls)
	}
}

func TestDelayOverride(t *testing.T) {
	d := NewDelayFromEnv(func(string) string { return "" })

	d.Set(250 * time.Millisecond)
	if got := d.Get(); got != 250*time.Millisecond {
		t.Errorf("Get() after Set = %v, want 250ms", got)
	}

	d.Set(0)
	if got := d.Get(); got != LocalDelay {
		t.Errorf("Get() after reset = %v, want %v", got, LocalDelay)
	}
}
