// Package fixture records and replays terminal replies.
//
// A fixture captures what one emulator answered to each probe. Replaying it
// through a Device runs the real detection against those answers, which is
// how the emulator signatures are tested without the emulators installed.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/termdetect/internal/detect"
	"github.com/Dicklesworthstone/termdetect/internal/tty"
	"github.com/Dicklesworthstone/termdetect/internal/util"
)

// NoReply marks a probe the emulator ignores. A probe missing from the
// fixture is ignored as well.
const NoReply = "<NO REPLY>"

// ErrUnknownProbe is returned for fixture keys that name no probe.
var ErrUnknownProbe = errors.New("unknown probe")

// Fixture is one emulator's recorded answers.
type Fixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Term is the value of TERM the emulator sets.
	Term string `yaml:"term,omitempty"`

	// Replies holds reply payloads by probe key; the device adds the
	// framing.
	Replies map[string]string `yaml:"replies,omitempty"`

	// RawReplies are written back byte for byte, framing included. They
	// take precedence over Replies.
	RawReplies map[string]string `yaml:"raw_replies,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`

	path string
}

// Expect is what detection must conclude from the replies.
type Expect struct {
	Implementation string `yaml:"implementation"`
	Emulation      string `yaml:"emulation,omitempty"`
	Version        string `yaml:"version,omitempty"`

	// Issued lists the optional probes (all but DA1 and DA2) that must be
	// sent. nil means any; an empty list means none.
	Issued []string `yaml:"issued"`

	Features []string `yaml:"features,omitempty"`
}

// Path returns the file the fixture was loaded from.
func (f *Fixture) Path() string {
	return f.path
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = filepath.Base(path)
	}
	f.path = path
	return &f, nil
}

// LoadDir reads every *.yaml file in dir, sorted by file name.
func LoadDir(dir string) ([]*Fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	fixtures := make([]*Fixture, 0, len(paths))
	for _, p := range paths {
		f, err := Load(p)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// Save writes the fixture as YAML.
func (f *Fixture) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding fixture: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating fixture directory: %w", err)
		}
	}
	if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	return nil
}

// Validate checks that every reply key names a probe and the expectations
// name known values.
func (f *Fixture) Validate() error {
	for _, m := range []map[string]string{f.Replies, f.RawReplies} {
		for key := range m {
			if _, err := detect.ParseProbe(key); err != nil {
				return fmt.Errorf("%w %q", ErrUnknownProbe, key)
			}
		}
	}
	if f.Expect == nil {
		return nil
	}
	if _, err := detect.ParseImplementation(f.Expect.Implementation); err != nil {
		return err
	}
	if f.Expect.Emulation != "" {
		if _, err := detect.ParseEmulation(f.Expect.Emulation); err != nil {
			return err
		}
	}
	for _, key := range f.Expect.Issued {
		if _, err := detect.ParseProbe(key); err != nil {
			return fmt.Errorf("expect: %w %q", ErrUnknownProbe, key)
		}
	}
	return nil
}

// reply returns the bytes the emulator writes in answer to p.
func (f *Fixture) reply(p detect.Probe) (string, bool) {
	if raw, ok := f.RawReplies[p.Key()]; ok {
		return raw, raw != ""
	}
	payload, ok := f.Replies[p.Key()]
	if !ok || payload == NoReply {
		return "", false
	}
	req := p.Request()
	return req.Prefix + payload + req.Suffix, true
}

// Getenv serves the environment the emulator would set up.
func (f *Fixture) Getenv(key string) string {
	if key == "TERM" {
		return f.Term
	}
	return ""
}

// Run detects the terminal described by the fixture.
func (f *Fixture) Run(ctx context.Context, logger *slog.Logger) (*detect.Info, *Device) {
	dev := NewDevice(f)
	info := detect.Detect(ctx, detect.Options{
		Device: dev,
		Delay:  tty.FixedDelay(time.Millisecond),
		Getenv: f.Getenv,
		Logger: logger,
	})
	return info, dev
}

// FromInfo records the replies of a detection as a fixture. Probes that were
// not sent are left out; the expectations describe the result.
func FromInfo(name string, info *detect.Info, term string) *Fixture {
	f := &Fixture{
		Name:    name,
		Term:    term,
		Replies: make(map[string]string),
		Expect: &Expect{
			Implementation: info.Implementation.Key(),
			Emulation:      info.Emulation.Key(),
			Version:        info.Version,
			Issued:         []string{},
		},
	}
	for _, p := range info.Replies.Issued() {
		r := info.Replies.Get(p)
		if r.State == detect.Received {
			f.Replies[p.Key()] = r.Payload
		} else {
			f.Replies[p.Key()] = NoReply
		}
		if optional(p) {
			f.Expect.Issued = append(f.Expect.Issued, p.Key())
		}
	}
	return f
}

func optional(p detect.Probe) bool {
	return p != detect.ProbePrimary && p != detect.ProbeSecondary
}

// Check compares a detection result with the expectations and returns one
// error per mismatch.
func (f *Fixture) Check(info *detect.Info) []error {
	if f.Expect == nil {
		return nil
	}
	var errs []error
	if got := info.Implementation.Key(); got != f.Expect.Implementation {
		errs = append(errs, fmt.Errorf("implementation: got %s, want %s", got, f.Expect.Implementation))
	}
	if f.Expect.Emulation != "" {
		if got := info.Emulation.Key(); got != f.Expect.Emulation {
			errs = append(errs, fmt.Errorf("emulation: got %s, want %s", got, f.Expect.Emulation))
		}
	}
	if f.Expect.Version != "" && info.Version != f.Expect.Version {
		errs = append(errs, fmt.Errorf("version: got %q, want %q", info.Version, f.Expect.Version))
	}
	if f.Expect.Issued != nil {
		var got []string
		for _, p := range info.Replies.Issued() {
			if optional(p) {
				got = append(got, p.Key())
			}
		}
		want := slices.Clone(f.Expect.Issued)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			errs = append(errs, fmt.Errorf("issued probes: got %v, want %v", got, want))
		}
	}
	for _, name := range f.Expect.Features {
		if !slices.Contains(info.Features.Names(), name) {
			errs = append(errs, fmt.Errorf("feature %s not detected", name))
		}
	}
	return errs
}
