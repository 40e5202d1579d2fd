package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "FEATURE", "CODE")
	table.AddRow("132cols", "1")
	table.AddRow("capturecontour", "314")
	table.AddRow("decstbm")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"  FEATURE         CODE",
		"  --------------  ----",
		"  132cols         1",
		"  capturecontour  314",
		"  decstbm",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTableWideRunes(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, "NAME", "X")
	table.AddRow("端末", "1")
	table.AddRow("ab", "2")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// "端末" is four columns wide, so the second column starts at the same
	// display offset on every row.
	if lines[2] != "  端末  1" || lines[3] != "  ab    2" {
		t.Errorf("misaligned rows:\n%s", buf.String())
	}
}

func TestPluralize(t *testing.T) {
	if got := CountStr(1, "probe", "probes"); got != "1 probe" {
		t.Errorf("CountStr(1) = %q", got)
	}
	if got := CountStr(3, "probe", "probes"); got != "3 probes" {
		t.Errorf("CountStr(3) = %q", got)
	}
	if got := Pluralize(0, "fixture", "fixtures"); got != "fixtures" {
		t.Errorf("Pluralize(0) = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("DA1=64;1;2;6;9;15", 10); got != "DA1=64;..." {
		t.Errorf("Truncate = %q", got)
	}
}
