package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/config"
	"github.com/Dicklesworthstone/termdetect/internal/output"
)

// ConfigPathResponse is the JSON form of config path.
type ConfigPathResponse struct {
	output.TimestampedResponse
	Path string `json:"path"`
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return reportError(cmd, err)
			}
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), ConfigPathResponse{
					TimestampedResponse: output.NewTimestamped(),
					Path:                path,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultPath()
			}
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), ConfigPathResponse{
					TimestampedResponse: output.NewTimestamped(),
					Path:                path,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Print the configuration after the config file and the TERMDETECT_*
environment variables have been applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), cfg)
			}
			return config.Print(cfg, cmd.OutOrStdout())
		},
	})

	return cmd
}
