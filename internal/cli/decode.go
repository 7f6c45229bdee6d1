package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoql/tempoql/internal/coerce"
	"github.com/tempoql/tempoql/internal/registry"
	"github.com/tempoql/tempoql/internal/token"
	"github.com/tempoql/tempoql/internal/wire"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
	Specs  string // CUE schema directory; empty for the built-in set
	String bool   // force the literal to be a string token
}

// DecodeResult holds the outcome of a decode.
type DecodeResult struct {
	Scalar  string `json:"scalar"`
	Variant string `json:"variant"`
	Token   string `json:"token"` // token kind: "string", "int", "float"
	Domain  string `json:"domain"`
	Wire    string `json:"wire"` // canonical JSON of the re-serialized value
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <scalar> <literal>",
		Short: "Coerce a literal into a domain value",
		Long: `Classify a literal the way the query lexer would and coerce it
against the named scalar, printing the domain value and its
re-serialized wire form.

The literal is classified as an int or float token when it parses as a
number, and as a string token otherwise. Use --string to force string
classification (e.g. to probe a numeric-looking date).

Exit codes:
  0 - Literal coerced
  1 - Literal rejected (wrong token kind or failed decode)
  2 - Command error (unknown scalar, bad schema directory)

Examples:
  tempoql decode DateTimeUtc 2014-11-28T21:00:09+09:00
  tempoql decode NaiveDateTime 1000000000
  tempoql decode NaiveDate 1996-12-19 --specs ./schemas`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Specs, "specs", "", "CUE schema directory (default: built-in scalars)")
	cmd.Flags().BoolVar(&opts.String, "string", false, "treat the literal as a string token")

	return cmd
}

func runDecode(opts *DecodeOptions, scalar, literal string, cmd *cobra.Command) error {
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

	tok := classifyLiteral(literal, opts.String)
	formatter.VerboseLog("Classified literal as %s token", tokenKindName(tok))

	dv, err := entry.FromLiteral(tok)
	if err != nil {
		code := ErrCodeDecode
		if coerce.IsUnexpectedToken(err) {
			code = ErrCodeUnexpectedToken
		}
		formatter.Error(code, err.Error(), decodeErrorDetails(err))
		return NewExitError(ExitFailure, "literal rejected")
	}

	wireJSON, err := wire.MarshalCanonical(entry.Resolve(dv))
	if err != nil {
		return WrapExitError(ExitCommandError, "serializing domain value", err)
	}

	result := DecodeResult{
		Scalar:  entry.Name,
		Variant: entry.Variant,
		Token:   tokenKindName(tok),
		Domain:  fmt.Sprint(dv),
		Wire:    string(wireJSON),
	}
	return outputDecodeResult(formatter, result)
}

func outputDecodeResult(f *OutputFormatter, result DecodeResult) error {
	if f.Format == "json" {
		return f.Success(result)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scalar:  %s (%s)\n", result.Scalar, result.Variant)
	fmt.Fprintf(&b, "token:   %s\n", result.Token)
	fmt.Fprintf(&b, "domain:  %s\n", result.Domain)
	fmt.Fprintf(&b, "wire:    %s", result.Wire)
	return f.Success(b.String())
}

// classifyLiteral builds a token from a command-line literal the way the
// query lexer would classify it.
func classifyLiteral(literal string, forceString bool) token.Token {
	if forceString {
		return token.StringToken(literal)
	}
	if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return token.IntToken(n)
	}
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return token.FloatToken(f)
	}
	return token.StringToken(literal)
}

func tokenKindName(t token.Token) string {
	switch t.Kind {
	case token.Int:
		return "int"
	case token.Float:
		return "float"
	default:
		return "string"
	}
}

// decodeErrorDetails extracts structured details from a coercion error
// for JSON output.
func decodeErrorDetails(err error) any {
	var de *registry.DecodeError
	if errors.As(err, &de) {
		return map[string]any{"scalar": de.Scalar, "literal": de.Token.String()}
	}
	return nil
}
