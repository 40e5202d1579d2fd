package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/config"
	"github.com/Dicklesworthstone/termdetect/internal/detect"
	"github.com/Dicklesworthstone/termdetect/internal/fixture"
	"github.com/Dicklesworthstone/termdetect/internal/output"
	"github.com/Dicklesworthstone/termdetect/internal/tty"
	"github.com/Dicklesworthstone/termdetect/internal/util"
)

var (
	saveFixture  string
	showGeometry bool
)

func addDetectFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&saveFixture, "save", "", "record the replies as a fixture (file, or directory to name it after the terminal)")
	cmd.Flags().BoolVar(&showGeometry, "geometry", false, "also report the window size")
}

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Identify the terminal (default command)",
		Long: `Probe the terminal and print what it is.

Requests are sent one at a time; each waits up to the request delay for its
reply. Emulators that ignore a request cost one delay each, so a silent
terminal takes about half a second with the default delay.

Examples:
  termdetect detect
  termdetect detect --json --geometry
  termdetect detect --save ./fixtures/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd)
		},
	}
	addDetectFlags(cmd)
	return cmd
}

func runDetect(cmd *cobra.Command) error {
	info := detect.Detect(cmd.Context(), detect.Options{
		DevicePath: cfg.DevicePath(),
		Logger:     slog.Default(),
	})

	rep := output.NewReport(info)
	rep.RequestDelayMS = detect.RequestDelay().Milliseconds()

	if showGeometry || cfg.Detect.Geometry {
		size, err := terminalSize(cfg.DevicePath())
		if err != nil {
			slog.Warn("window size unavailable", "error", err)
		} else {
			rep.Geometry = &size
		}
	}

	if saveFixture != "" {
		path, err := saveDetection(saveFixture, info)
		if err != nil {
			return reportError(cmd, err)
		}
		if !IsJSONOutput() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Saved fixture: %s\n", path)
		}
	}

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return output.WriteJSON(out, rep)
	}
	r := output.NewRenderer(out, cfg.Output.Color, cfg.Output.Wrap)
	slog.Debug("rendering report", "profile", output.ProfileName(r.Profile()))
	return r.Print(rep)
}

// saveDetection writes the replies behind info as a fixture. A directory
// target gets a file named after the detected implementation.
func saveDetection(target string, info *detect.Info) (string, error) {
	target = config.ExpandHome(target)
	name := info.Implementation.Key()
	path := target
	if st, err := os.Stat(target); err == nil && st.IsDir() {
		path = filepath.Join(target, util.SanitizeFilename(name)+".yaml")
	}
	f := fixture.FromInfo(name, info, os.Getenv("TERM"))
	if err := f.Save(path); err != nil {
		return "", err
	}
	return path, nil
}

func terminalSize(device string) (tty.Size, error) {
	if device == "" {
		return tty.Geometry(-1)
	}
	t, err := tty.OpenPath(device)
	if err != nil {
		return tty.Size{}, err
	}
	defer t.Close()
	return tty.Geometry(t.Fd())
}
