package cli

import (
	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/output"
)

// reportError emits err as a JSON error object in JSON mode and returns it
// so the exit status reflects the failure.
func reportError(cmd *cobra.Command, err error) error {
	if IsJSONOutput() {
		_ = output.WriteJSON(cmd.OutOrStdout(), output.NewError(err.Error()))
	}
	return err
}
