package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoql/tempoql/internal/corpus"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	DB    string
	Specs string
}

// DriftReport describes one drifted corpus entry.
type DriftReport struct {
	RunToken string `json:"run_token"`
	Seq      int    `json:"seq"`
	Scalar   string `json:"scalar"`
	Field    string `json:"field"`
	Stored   string `json:"stored"`
	Current  string `json:"current"`
}

// ReplayResult holds the outcome of a replay.
type ReplayResult struct {
	Runs    int           `json:"runs"`
	Entries int           `json:"entries"`
	Drifts  []DriftReport `json:"drifts,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify a corpus database against the current rules",
		Long: `Re-coerce every entry in a corpus database and report entries whose
outcome or wire form differs from what was recorded. Coercion is
referentially transparent, so any drift is a behavior change.

Exit codes:
  0 - Corpus matches current rules
  1 - Drift detected
  2 - Command error (missing database, corpus defects)

Examples:
  tempoql replay --db corpus.db
  tempoql replay --db corpus.db --specs ./schemas --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "corpus database path (required)")
	cmd.Flags().StringVar(&opts.Specs, "specs", "", "CUE schema directory (default: built-in scalars)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.DB); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("corpus database not found: %s", opts.DB))
	}

	reg, err := loadRegistry(opts.Specs, formatter)
	if err != nil {
		return err
	}

	store, err := corpus.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("opening corpus %s", opts.DB), err)
	}
	defer store.Close()

	ctx := cmd.Context()
	runs, err := store.Runs(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading corpus", err)
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading corpus", err)
	}
	formatter.VerboseLog("Replaying %d entries from %d run(s)", len(entries), len(runs))

	drifts, err := store.Replay(ctx, reg)
	if err != nil {
		return WrapExitError(ExitCommandError, "replaying corpus", err)
	}

	result := ReplayResult{Runs: len(runs), Entries: len(entries)}
	for _, d := range drifts {
		result.Drifts = append(result.Drifts, DriftReport{
			RunToken: d.RunToken,
			Seq:      d.Seq,
			Scalar:   d.Scalar,
			Field:    d.Field,
			Stored:   d.Stored,
			Current:  d.Current,
		})
	}

	if err := outputReplayResult(formatter, result); err != nil {
		return err
	}

	if len(result.Drifts) > 0 {
		return NewExitError(ExitFailure,
			fmt.Sprintf("%d drifted entr(ies) of %d", len(result.Drifts), result.Entries))
	}
	return nil
}

func outputReplayResult(f *OutputFormatter, result ReplayResult) error {
	if f.Format == "json" {
		if len(result.Drifts) > 0 {
			return f.Error(ErrCodeDrift,
				fmt.Sprintf("%d drifted entr(ies)", len(result.Drifts)), result)
		}
		return f.Success(result)
	}

	var b strings.Builder
	for _, d := range result.Drifts {
		fmt.Fprintf(&b, "DRIFT  %s/%d (%s): %s was %q, now %q\n",
			d.RunToken, d.Seq, d.Scalar, d.Field, d.Stored, d.Current)
	}
	fmt.Fprintf(&b, "%d entries from %d run(s), %d drifted",
		result.Entries, result.Runs, len(result.Drifts))
	return f.Success(b.String())
}
