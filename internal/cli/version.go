package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/output"
)

var versionShort bool

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, versionShort)
		},
	}
	cmd.Flags().BoolVarP(&versionShort, "short", "s", false, "Print only version number")
	return cmd
}

func runVersion(cmd *cobra.Command, short bool) error {
	resp := buildVersionResponse()
	out := cmd.OutOrStdout()

	if IsJSONOutput() {
		return output.WriteJSON(out, resp)
	}

	if short {
		fmt.Fprintln(out, resp.Version)
		return nil
	}
	fmt.Fprintf(out, "termdetect version %s\n", resp.Version)
	fmt.Fprintf(out, "  commit:    %s\n", resp.Commit)
	fmt.Fprintf(out, "  built:     %s\n", resp.BuiltAt)
	fmt.Fprintf(out, "  builder:   %s\n", resp.BuiltBy)
	fmt.Fprintf(out, "  go:        %s\n", resp.GoVersion)
	fmt.Fprintf(out, "  platform:  %s\n", resp.Platform)
	return nil
}

func buildVersionResponse() output.VersionResponse {
	return output.VersionResponse{
		TimestampedResponse: output.NewTimestamped(),
		Version:             Version,
		Commit:              Commit,
		BuiltAt:             Date,
		BuiltBy:             BuiltBy,
		GoVersion:           goVersion(),
		Platform:            goPlatform(),
	}
}
