package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/Dicklesworthstone/termdetect/internal/util"
)

// Config holds all configuration.
type Config struct {
	// RequestDelayMS is how long each probe waits for its reply. Zero
	// derives it from DISPLAY.
	RequestDelayMS int `toml:"request_delay_ms" json:"request_delay_ms"`

	Output OutputConfig `toml:"output" json:"output"`
	Detect DetectConfig `toml:"detect" json:"detect"`
}

// OutputConfig controls how results are rendered.
type OutputConfig struct {
	Format string `toml:"format" json:"format"` // text or json
	Color  string `toml:"color" json:"color"`   // auto, always or never
	Wrap   int    `toml:"wrap" json:"wrap"`     // width for the raw reply line; 0 uses the terminal width
}

// DetectConfig controls probing.
type DetectConfig struct {
	Device   string `toml:"device" json:"device,omitempty"` // terminal device; empty means the controlling terminal
	Geometry bool   `toml:"geometry" json:"geometry"`       // also report the window size
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// MaxRequestDelayMS bounds the per-probe timeout. Six probes at this delay
// already keep the user waiting for half a minute.
const MaxRequestDelayMS = 5000

// DefaultOutputConfig returns the default output configuration.
func DefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Format: FormatText,
		Color:  ColorAuto,
	}
}

// ValidateOutputConfig validates the output configuration.
func ValidateOutputConfig(cfg *OutputConfig) error {
	switch cfg.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatText, FormatJSON, cfg.Format)
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("output.color must be %q, %q or %q, got %q", ColorAuto, ColorAlways, ColorNever, cfg.Color)
	}
	if cfg.Wrap < 0 {
		return fmt.Errorf("output.wrap must be non-negative, got %d", cfg.Wrap)
	}
	return nil
}

// ValidateDetectConfig validates the detect configuration.
func ValidateDetectConfig(cfg *DetectConfig) error {
	if cfg.Device == "" {
		return nil
	}
	info, err := os.Stat(ExpandHome(cfg.Device))
	if err != nil {
		return fmt.Errorf("detect.device: %w", err)
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return fmt.Errorf("detect.device %s is not a character device", cfg.Device)
	}
	return nil
}

// Validate checks the whole configuration and returns every problem found.
func Validate(cfg *Config) []error {
	var errs []error
	if cfg.RequestDelayMS < 0 || cfg.RequestDelayMS > MaxRequestDelayMS {
		errs = append(errs, fmt.Errorf("request_delay_ms must be between 0 and %d, got %d", MaxRequestDelayMS, cfg.RequestDelayMS))
	}
	if err := ValidateOutputConfig(&cfg.Output); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateDetectConfig(&cfg.Detect); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// RequestDelay returns the configured probe timeout; zero means derive it
// from the environment.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// DevicePath returns the terminal device to probe, with ~ expanded.
func (c *Config) DevicePath() string {
	return ExpandHome(c.Detect.Device)
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	if env := os.Getenv("TERMDETECT_CONFIG"); env != "" {
		return ExpandHome(env)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "termdetect", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "termdetect", "config.toml")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: DefaultOutputConfig(),
	}
}

// Load reads the configuration from path, or from DefaultPath when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	// 1. Initialize with defaults
	cfg := Default()

	// 2. Read and unmarshal TOML over defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Apply Environment Variable Overrides (Env > TOML > Default)
	if delay := os.Getenv("TERMDETECT_DELAY_MS"); delay != "" {
		if n, err := strconv.Atoi(delay); err == nil && n >= 0 {
			cfg.RequestDelayMS = n
		}
	}
	if format := os.Getenv("TERMDETECT_FORMAT"); format != "" {
		cfg.Output.Format = strings.ToLower(format)
	}
	// NO_COLOR is honoured by the renderer itself.
	if noColor := os.Getenv("TERMDETECT_NO_COLOR"); noColor == "1" || noColor == "true" {
		cfg.Output.Color = ColorNever
	}
	if device := os.Getenv("TERMDETECT_DEVICE"); device != "" {
		cfg.Detect.Device = device
	}

	return cfg, nil
}

// CreateDefault writes a default config file to DefaultPath.
func CreateDefault() (string, error) {
	path := DefaultPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config file already exists: %s", path)
	}

	var buffer strings.Builder
	if err := Print(Default(), &buffer); err != nil {
		return "", err
	}
	if err := util.AtomicWriteFile(path, []byte(buffer.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Print writes cfg as a commented TOML file.
func Print(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# termdetect configuration")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "# Milliseconds each request waits for a reply.")
	fmt.Fprintln(w, "# 0 picks 100, or 500 when DISPLAY names a remote X server.")
	fmt.Fprintf(w, "request_delay_ms = %d\n", cfg.RequestDelayMS)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[output]")
	fmt.Fprintln(w, "# text or json")
	fmt.Fprintf(w, "format = %q\n", cfg.Output.Format)
	fmt.Fprintln(w, "# auto, always or never")
	fmt.Fprintf(w, "color = %q\n", cfg.Output.Color)
	fmt.Fprintln(w, "# Wrap width of the raw reply line (0 = terminal width)")
	fmt.Fprintf(w, "wrap = %d\n", cfg.Output.Wrap)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[detect]")
	if cfg.Detect.Device != "" {
		fmt.Fprintf(w, "device = %q\n", cfg.Detect.Device)
	} else {
		fmt.Fprintln(w, "# device = \"/dev/tty\"")
	}
	fmt.Fprintf(w, "geometry = %t\n", cfg.Detect.Geometry)

	return nil
}

// ExpandHome expands the tilde (~) in a path to the user's home directory.
// Supports "~" and "~/path" formats.
func ExpandHome(path string) string {
	if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			return home
		}
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}

	return path
}
