package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoql/tempoql/internal/harness"
)

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Checks int      `json:"checks"`
	Errors []string `json:"errors,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <scenario.yaml>...",
		Short: "Run conformance scenarios",
		Long: `Run conformance scenario files against their scalar sets.

Each scenario's schema paths resolve relative to the scenario file.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing files, malformed scenarios)

Examples:
  tempoql check scenarios/utc.yaml
  tempoql check scenarios/*.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runChecks(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := CheckResult{}
	for _, path := range paths {
		scenario, err := harness.LoadScenarioWithBasePath(path, filepath.Dir(path))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("loading %s", path), err)
		}

		formatter.VerboseLog("Running scenario %s (%d checks)", scenario.Name, len(scenario.Checks))
		run, err := harness.Run(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("running %s", scenario.Name), err)
		}

		result.Scenarios = append(result.Scenarios, ScenarioResult{
			Name:   scenario.Name,
			Pass:   run.Pass,
			Checks: len(run.Transcript),
			Errors: run.Errors,
		})
		result.Total++
		if run.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if err := outputCheckResult(formatter, result); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

func outputCheckResult(f *OutputFormatter, result CheckResult) error {
	if f.Format == "json" {
		if result.Failed > 0 {
			return f.Error(ErrCodeScenario,
				fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total), result)
		}
		return f.Success(result)
	}

	var b strings.Builder
	for _, s := range result.Scenarios {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "%s  %s (%d checks)\n", status, s.Name, s.Checks)
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "      %s\n", e)
		}
	}
	fmt.Fprintf(&b, "%d passed, %d failed, %d total", result.Passed, result.Failed, result.Total)
	return f.Success(b.String())
}
