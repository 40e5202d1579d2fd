package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/termdetect/internal/fixture"
	"github.com/Dicklesworthstone/termdetect/internal/output"
)

// ReplayResult is the outcome of replaying one fixture.
type ReplayResult struct {
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Passed bool          `json:"passed"`
	Errors []string      `json:"errors,omitempty"`
	Sent   []string      `json:"sent"`
	Report output.Report `json:"report"`
}

// ReplayResponse is the JSON form of the replay command.
type ReplayResponse struct {
	output.TimestampedResponse
	Results []ReplayResult `json:"results"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
}

func newReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <fixture|dir>...",
		Short: "Run detection against recorded replies",
		Long: `Replay recorded terminal replies through the detector and compare the
result with each fixture's expectations.

A directory argument replays every *.yaml file in it. The command fails
when any fixture does not match.

Examples:
  termdetect replay internal/fixture/testdata
  termdetect replay kitty.yaml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := loadFixtures(args)
			if err != nil {
				return reportError(cmd, err)
			}
			resp := replayFixtures(cmd, fixtures)

			if IsJSONOutput() {
				if err := output.WriteJSON(cmd.OutOrStdout(), resp); err != nil {
					return err
				}
			} else {
				printReplay(cmd, resp)
			}

			if resp.Failed > 0 {
				return fmt.Errorf("%d of %s failed", resp.Failed,
					output.CountStr(len(resp.Results), "fixture", "fixtures"))
			}
			return nil
		},
	}
}

func loadFixtures(args []string) ([]*fixture.Fixture, error) {
	var fixtures []*fixture.Fixture
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			fs, err := fixture.LoadDir(arg)
			if err != nil {
				return nil, err
			}
			if len(fs) == 0 {
				return nil, fmt.Errorf("no fixtures in %s", arg)
			}
			fixtures = append(fixtures, fs...)
			continue
		}
		f, err := fixture.Load(arg)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

func replayFixtures(cmd *cobra.Command, fixtures []*fixture.Fixture) ReplayResponse {
	resp := ReplayResponse{TimestampedResponse: output.NewTimestamped()}
	for _, f := range fixtures {
		info, dev := f.Run(cmd.Context(), slog.Default().With("fixture", f.Name))

		res := ReplayResult{
			Name:   f.Name,
			Path:   f.Path(),
			Report: output.NewReport(info),
		}
		for _, p := range dev.Requests() {
			res.Sent = append(res.Sent, p.Key())
		}
		for _, err := range f.Check(info) {
			res.Errors = append(res.Errors, err.Error())
		}
		res.Passed = len(res.Errors) == 0
		if res.Passed {
			resp.Passed++
		} else {
			resp.Failed++
		}
		resp.Results = append(resp.Results, res)
	}
	return resp
}

func printReplay(cmd *cobra.Command, resp ReplayResponse) {
	out := cmd.OutOrStdout()
	table := output.NewTable(out, "FIXTURE", "TERMINAL", "VERSION", "EMULATION", "SENT", "RESULT")
	for _, r := range resp.Results {
		result := "ok"
		if !r.Passed {
			result = "FAIL"
		}
		version := r.Report.Version
		if version == "" {
			version = "-"
		}
		table.AddRow(
			output.Truncate(r.Name, 24),
			r.Report.ImplementationKey,
			version,
			r.Report.EmulationKey,
			strings.Join(r.Sent, ","),
			result,
		)
	}
	table.Render()

	for _, r := range resp.Results {
		for _, e := range r.Errors {
			fmt.Fprintf(out, "%s: %s\n", r.Name, e)
		}
	}
	fmt.Fprintf(out, "\n%d passed, %d failed\n", resp.Passed, resp.Failed)
}
