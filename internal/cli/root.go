package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/config"
	"github.com/Dicklesworthstone/termdetect/internal/detect"
)

var (
	cfgFile string
	cfg     *config.Config

	// Global JSON output flag - inherited by all subcommands
	jsonOutput bool

	// Global color control flag - inherited by all subcommands
	noColor bool

	// Debug logging of every request and reply on stderr
	verbose bool

	// Per-request timeout; zero keeps the configured value
	delayFlag time.Duration

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "termdetect",
	Short: "Identify the terminal emulator on the other end of the tty",
	Long: `termdetect asks the controlling terminal a short series of identification
requests (DA1, DA2, DA3, XTVERSION, XTGETTCAP, OSC 702) and names the
emulator, its version, the VT level it emulates and its feature set.

Quick Start:
  termdetect                          # Detect and print a summary
  termdetect --json                   # Same, as JSON
  termdetect detect --save fixtures/  # Record the replies as a fixture
  termdetect replay fixtures/         # Re-run detection against recordings

The terminal is left in the mode it was found in, even on Ctrl-C.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(cmd)

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			// Use defaults if config loading fails
			slog.Warn("config load failed, using defaults", "error", err)
			cfg = config.Default()
		}

		if noColor {
			cfg.Output.Color = config.ColorNever
		}
		if jsonOutput {
			cfg.Output.Format = config.FormatJSON
		} else if cfg.Output.Format == config.FormatJSON {
			jsonOutput = true
		}

		if errs := config.Validate(cfg); len(errs) > 0 {
			return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
		}

		if delayFlag > 0 {
			detect.SetRequestDelay(delayFlag)
		} else {
			detect.SetRequestDelay(cfg.RequestDelay())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDetect(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/termdetect/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request and reply to stderr")
	rootCmd.PersistentFlags().DurationVar(&delayFlag, "delay", 0, "time to wait for each reply (default: 100ms, 500ms on a remote display)")

	addDetectFlags(rootCmd)

	rootCmd.AddCommand(
		newDetectCmd(),
		newGeometryCmd(),
		newCursorCmd(),
		newReplayCmd(),
		newFeaturesCmd(),
		newVersionCmd(),
		newConfigCmd(),
	)
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// If not in JSON mode, print the error to stderr
		// (SilenceErrors is set to true to handle JSON mode properly)
		if !jsonOutput {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// IsJSONOutput returns true if JSON output is enabled
func IsJSONOutput() bool {
	return jsonOutput
}

// goVersion returns the current Go runtime version.
func goVersion() string {
	return runtime.Version()
}

// goPlatform returns the OS/ARCH string.
func goPlatform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
