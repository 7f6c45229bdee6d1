package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tempoql/tempoql/internal/corpus"
	"github.com/tempoql/tempoql/internal/harness"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions
	DB    string
	Token string
}

// RecordResult holds the outcome of a record.
type RecordResult struct {
	RunToken string `json:"run_token"`
	Scenario string `json:"scenario"`
	Entries  int    `json:"entries"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <scenario.yaml>",
		Short: "Record a scenario run into a corpus database",
		Long: `Run a conformance scenario and store its transcript in a corpus
database for later drift detection with replay.

The transcript is recorded regardless of expectation results: the corpus
captures what the rules DID, and replay detects when they change.

Run tokens are UUIDv7 unless --token is given.

Examples:
  tempoql record scenarios/utc.yaml --db corpus.db
  tempoql record scenarios/utc.yaml --db corpus.db --token release-1.2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "corpus database path (required)")
	cmd.Flags().StringVar(&opts.Token, "token", "", "run token (default: generated UUIDv7)")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runRecord(opts *RecordOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenarioWithBasePath(path, filepath.Dir(path))
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("loading %s", path), err)
	}

	run, err := harness.Run(scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("running %s", scenario.Name), err)
	}

	token := opts.Token
	if token == "" {
		token = corpus.UUIDv7Generator{}.Generate()
	}

	store, err := corpus.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("opening corpus %s", opts.DB), err)
	}
	defer store.Close()

	entries := corpusEntries(scenario, run)
	if err := store.Record(cmd.Context(), token, scenario.Name, entries); err != nil {
		return WrapExitError(ExitCommandError, "recording run", err)
	}

	formatter.VerboseLog("Recorded %d entries under run %s", len(entries), token)
	result := RecordResult{RunToken: token, Scenario: scenario.Name, Entries: len(entries)}
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("recorded %s: %d entries as run %s",
		result.Scenario, result.Entries, result.RunToken))
}

// corpusEntries converts a scenario transcript to corpus entries.
// Checks and transcript events correspond one-to-one, in order.
func corpusEntries(scenario *harness.Scenario, run *harness.Result) []corpus.Entry {
	entries := make([]corpus.Entry, len(run.Transcript))
	for i, event := range run.Transcript {
		entry := corpus.Entry{
			Seq:     event.Seq,
			Scalar:  event.Scalar,
			Surface: event.Surface,
			Input:   event.Input,
			Outcome: event.Outcome,
			Wire:    event.Wire,
			Error:   event.Error,
		}
		check := scenario.Checks[i]
		switch {
		case check.Literal != nil:
			entry.InputKind = check.Literal.Kind
		case check.Variable != nil:
			entry.InputKind = "json"
		}
		entries[i] = entry
	}
	return entries
}
