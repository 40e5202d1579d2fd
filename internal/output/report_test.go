package output

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/Dicklesworthstone/termdetect/internal/config"
	"github.com/Dicklesworthstone/termdetect/internal/fixture"
	"github.com/Dicklesworthstone/termdetect/internal/tty"
)

func loadReport(t *testing.T, name string) Report {
	t.Helper()
	f, err := fixture.Load(filepath.Join("..", "fixture", "testdata", name+".yaml"))
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	info, _ := f.Run(context.Background(), nil)
	return NewReport(info)
}

func TestNewReport(t *testing.T) {
	rep := loadReport(t, "vte")

	if rep.Implementation != "VTE-based" || rep.ImplementationKey != "vte" {
		t.Errorf("implementation = %q (%q)", rep.Implementation, rep.ImplementationKey)
	}
	if rep.Version != "0.96" {
		t.Errorf("version = %q", rep.Version)
	}
	if len(rep.Replies) != 6 {
		t.Fatalf("replies = %d, want 6", len(rep.Replies))
	}
	states := map[string]string{}
	for _, r := range rep.Replies {
		states[r.Probe] = r.State
	}
	if states["DA3"] != StateReceived || states["Q"] != StateNotIssued {
		t.Errorf("states = %v", states)
	}
	if rep.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestReportJSON(t *testing.T) {
	rep := loadReport(t, "kitty")
	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["implementation_key"] != "kitty" {
		t.Errorf("implementation_key = %v", decoded["implementation_key"])
	}
	if _, ok := decoded["geometry"]; ok {
		t.Error("geometry present although not requested")
	}
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Error("JSON not indented")
	}
}

func TestRenderPlain(t *testing.T) {
	rep := loadReport(t, "xterm")
	rep.Geometry = &tty.Size{Cols: 120, Rows: 40}

	var buf bytes.Buffer
	r := NewRenderer(&buf, config.ColorNever, 40)
	if err := r.Print(rep); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if strings.Contains(out, "\x1b") {
		t.Errorf("escape sequences in plain output: %q", out)
	}
	for _, want := range []string{"XTerm 390", "VT420", "recteditcontour", "120x40", "not issued", "XTerm(390)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	// The raw line is wrapped at 40 columns.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "TN=") && strings.Contains(line, "Q=XTerm") {
			t.Errorf("raw line not wrapped: %q", line)
		}
	}
}

func TestRenderNoReply(t *testing.T) {
	rep := loadReport(t, "silent")
	var buf bytes.Buffer
	if err := NewRenderer(&buf, config.ColorNever, 0).Print(rep); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no reply") {
		t.Errorf("output lacks no reply marker:\n%s", buf.String())
	}
}

func TestColorProfile(t *testing.T) {
	var buf bytes.Buffer
	if p := ColorProfile(&buf, config.ColorAuto); p != termenv.Ascii {
		t.Errorf("auto on a buffer = %s, want ascii", ProfileName(p))
	}
	if p := ColorProfile(&buf, config.ColorNever); p != termenv.Ascii {
		t.Errorf("never = %s, want ascii", ProfileName(p))
	}
	if p := ColorProfile(&buf, config.ColorAlways); p == termenv.Ascii {
		t.Error("always produced ascii")
	}
}

func TestWidth(t *testing.T) {
	var buf bytes.Buffer
	if got := Width(&buf, 0); got != 80 {
		t.Errorf("Width(buffer, 0) = %d, want 80", got)
	}
	if got := Width(&buf, 52); got != 52 {
		t.Errorf("Width(buffer, 52) = %d, want 52", got)
	}
}
