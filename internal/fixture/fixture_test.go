package fixture

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dicklesworthstone/termdetect/internal/detect"
)

func TestSignatures(t *testing.T) {
	fixtures, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(fixtures) < 15 {
		t.Fatalf("expected at least 15 fixtures, got %d", len(fixtures))
	}

	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			info, dev := f.Run(context.Background(), nil)
			for _, err := range f.Check(info) {
				t.Error(err)
			}
			if t.Failed() {
				t.Logf("raw: %s", info.Raw)
			}

			if dev.Raw() {
				t.Error("device left in raw mode")
			}
			requests := dev.Requests()
			if dev.Restores() != len(requests) {
				t.Errorf("restores = %d, want one per request (%d)", dev.Restores(), len(requests))
			}
			seen := make(map[detect.Probe]bool)
			for _, p := range requests {
				if seen[p] {
					t.Errorf("probe %s sent twice", p)
				}
				seen[p] = true
			}
			if len(requests) < 2 || requests[0] != detect.ProbeSecondary || requests[1] != detect.ProbePrimary {
				t.Errorf("requests = %v, want DA2 then DA1 first", requests)
			}
		})
	}
}

func TestClassificationIsIdempotent(t *testing.T) {
	fixtures, err := LoadDir("testdata")
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			first, _ := f.Run(context.Background(), nil)
			second, _ := f.Run(context.Background(), nil)
			if first.Implementation != second.Implementation || first.Version != second.Version || first.Emulation != second.Emulation {
				t.Errorf("runs differ: %s %s %q vs %s %s %q",
					first.Implementation, first.Emulation, first.Version,
					second.Implementation, second.Emulation, second.Version)
			}
			if first.Raw != second.Raw {
				t.Errorf("raw differs:\n%s\n%s", first.Raw, second.Raw)
			}
		})
	}
}

func TestLoadRejectsUnknownProbe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("name: bad\nreplies:\n  da4: \"1\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, ErrUnknownProbe) {
		t.Fatalf("Load error = %v, want ErrUnknownProbe", err)
	}
}

func TestLoadRejectsUnknownImplementation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := []byte("name: bad\nexpect:\n  implementation: hyperterm\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown implementation")
	}
}

func TestLoadDefaultsNameToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unnamed.yaml")
	if err := os.WriteFile(path, []byte("term: xterm\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Name != "unnamed.yaml" {
		t.Errorf("Name = %q, want unnamed.yaml", f.Name)
	}
	if f.Path() != path {
		t.Errorf("Path = %q, want %q", f.Path(), path)
	}
}

func TestRecordAndReplay(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "kitty.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	info, _ := src.Run(context.Background(), nil)

	recorded := FromInfo("recorded", info, src.Term)
	if recorded.Replies["da3"] != "" {
		t.Errorf("unsent probe recorded: %q", recorded.Replies["da3"])
	}
	path := filepath.Join(t.TempDir(), "nested", "recorded.yaml")
	if err := recorded.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load recorded: %v", err)
	}
	replayed, _ := loaded.Run(context.Background(), nil)
	for _, err := range loaded.Check(replayed) {
		t.Error(err)
	}
	if replayed.Raw != info.Raw {
		t.Errorf("raw differs:\n got %s\nwant %s", replayed.Raw, info.Raw)
	}
}

func TestRecordNoReply(t *testing.T) {
	src, err := Load(filepath.Join("testdata", "silent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	info, _ := src.Run(context.Background(), nil)
	recorded := FromInfo("silent", info, src.Term)
	for _, key := range []string{"q", "tn", "da3", "osc702"} {
		if got := recorded.Replies[key]; got != NoReply {
			t.Errorf("replies[%s] = %q, want %q", key, got, NoReply)
		}
	}
}

func TestRawRepliesTakePrecedence(t *testing.T) {
	f := &Fixture{
		Replies:    map[string]string{"da1": "62;"},
		RawReplies: map[string]string{"da1": "\x1b[?64;4c"},
	}
	got, ok := f.reply(detect.ProbePrimary)
	if !ok || got != "\x1b[?64;4c" {
		t.Errorf("reply = %q, %v", got, ok)
	}

	f.RawReplies["da1"] = ""
	if _, ok := f.reply(detect.ProbePrimary); ok {
		t.Error("empty raw reply should stay silent")
	}
}

func TestDeviceRejectsWritesOutsideRawMode(t *testing.T) {
	dev := NewDevice(&Fixture{})
	if _, err := dev.Write([]byte("\x1b[c")); err == nil {
		t.Fatal("expected an error for a write outside raw mode")
	}
	restore, err := dev.MakeRaw()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.MakeRaw(); err == nil {
		t.Error("expected an error entering raw mode twice")
	}
	if err := restore(); err != nil {
		t.Fatal(err)
	}
	if dev.Raw() {
		t.Error("still raw after restore")
	}
}
