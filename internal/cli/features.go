package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/detect"
	"github.com/Dicklesworthstone/termdetect/internal/output"
)

// FeatureInfo describes one feature flag.
type FeatureInfo struct {
	Name string `json:"name"`
	Code uint64 `json:"code,omitempty"`
}

// FeaturesResponse is the JSON form of the features command.
type FeaturesResponse struct {
	output.TimestampedResponse
	Features []FeatureInfo `json:"features"`
}

func newFeaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the features detection can report",
		Long: `List every feature flag with the DA1 attribute code that announces it.
Features without a code are inferred from the terminal's identity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := FeaturesResponse{TimestampedResponse: output.NewTimestamped()}
			for _, f := range detect.AllFeatures() {
				code, _ := detect.FeatureCode(f)
				resp.Features = append(resp.Features, FeatureInfo{Name: f.String(), Code: code})
			}

			if IsJSONOutput() {
				return output.WriteJSON(cmd.OutOrStdout(), resp)
			}
			table := output.NewTable(cmd.OutOrStdout(), "FEATURE", "DA1")
			for _, f := range resp.Features {
				code := "-"
				if f.Code != 0 {
					code = strconv.FormatUint(f.Code, 10)
				}
				table.AddRow(f.Name, code)
			}
			table.Render()
			return nil
		},
	}
}
