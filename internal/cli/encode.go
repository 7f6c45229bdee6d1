package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoql/tempoql/internal/wire"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Specs string
}

// EncodeResult holds the outcome of an encode.
type EncodeResult struct {
	Scalar  string `json:"scalar"`
	Variant string `json:"variant"`
	Input   string `json:"input"` // wire kind of the input value
	Domain  string `json:"domain"`
	Wire    string `json:"wire"` // canonical JSON of the re-serialized value
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <scalar> <value>",
		Short: "Coerce a wire value and print its canonical form",
		Long: `Parse a wire value given as JSON (a quoted string or a number),
coerce it against the named scalar as a variable binding, and print the
canonical serialization.

Exit codes:
  0 - Value coerced
  1 - Value rejected
  2 - Command error (unknown scalar, malformed JSON)

Examples:
  tempoql encode DateTimeUtc '"2014-11-28T21:00:09+09:00"'
  tempoql encode NaiveDateTime 1000000000.75`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Specs, "specs", "", "CUE schema directory (default: built-in scalars)")

	return cmd
}

func runEncode(opts *EncodeOptions, scalar, value string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	reg, err := loadRegistry(opts.Specs, formatter)
	if err != nil {
		return err
	}

	entry, ok := reg.Lookup(scalar)
	if !ok {
		formatter.Error(ErrCodeUnknownScalar,
			fmt.Sprintf("unknown scalar %q (known: %s)", scalar, strings.Join(reg.Names(), ", ")), nil)
		return NewExitError(ExitCommandError, "unknown scalar")
	}

	wv, err := wire.ParseJSON([]byte(value))
	if err != nil {
		formatter.Error(ErrCodeBadInput, fmt.Sprintf("value is not JSON: %v", err), nil)
		return NewExitError(ExitCommandError, "malformed value")
	}

	dv, ok := entry.FromVariable(wv)
	if !ok {
		formatter.Error(ErrCodeDecode,
			fmt.Sprintf("%s does not accept %s input %s", entry.Name, wire.Kind(wv), value), nil)
		return NewExitError(ExitFailure, "value rejected")
	}

	wireJSON, err := wire.MarshalCanonical(entry.Resolve(dv))
	if err != nil {
		return WrapExitError(ExitCommandError, "serializing domain value", err)
	}

	result := EncodeResult{
		Scalar:  entry.Name,
		Variant: entry.Variant,
		Input:   wire.Kind(wv),
		Domain:  fmt.Sprint(dv),
		Wire:    string(wireJSON),
	}
	return outputEncodeResult(formatter, result)
}

func outputEncodeResult(f *OutputFormatter, result EncodeResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scalar:  %s (%s)\n", result.Scalar, result.Variant)
	fmt.Fprintf(&b, "input:   %s\n", result.Input)
	fmt.Fprintf(&b, "domain:  %s\n", result.Domain)
	fmt.Fprintf(&b, "wire:    %s", result.Wire)
	return f.Success(b.String())
}
