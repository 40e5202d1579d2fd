package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/detect"
	"github.com/Dicklesworthstone/termdetect/internal/output"
	"github.com/Dicklesworthstone/termdetect/internal/tty"
)

// GeometryResponse is the JSON form of the geometry command.
type GeometryResponse struct {
	output.TimestampedResponse
	tty.Size
}

// CursorResponse is the JSON form of the cursor command.
type CursorResponse struct {
	output.TimestampedResponse
	tty.Position
}

func newGeometryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geometry",
		Short: "Print the window size in character cells",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := terminalSize(cfg.DevicePath())
			if err != nil {
				return reportError(cmd, err)
			}
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), GeometryResponse{
					TimestampedResponse: output.NewTimestamped(),
					Size:                size,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d\n", size.Cols, size.Rows)
			return nil
		},
	}
}

func newCursorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cursor",
		Short: "Ask the terminal where the cursor is",
		Long: `Send a cursor position report request (DSR 6) and print the 1-based
column and row from the reply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := cursorPosition(cfg.DevicePath())
			if err != nil {
				return reportError(cmd, err)
			}
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), CursorResponse{
					TimestampedResponse: output.NewTimestamped(),
					Position:            pos,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d,%d\n", pos.Col, pos.Row)
			return nil
		},
	}
}

func cursorPosition(device string) (tty.Position, error) {
	t, err := tty.OpenPath(device)
	if err != nil {
		return tty.Position{}, err
	}
	defer t.Close()

	restore := tty.SuppressJobControl()
	defer restore()

	tr := tty.NewTransport(t, tty.FixedDelay(detect.RequestDelay()), slog.Default())
	return tty.CursorPosition(tr)
}
