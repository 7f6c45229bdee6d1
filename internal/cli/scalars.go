package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// ScalarsOptions holds flags for the scalars command.
type ScalarsOptions struct {
	*RootOptions
	Specs string
}

// ScalarInfo describes one registered scalar.
type ScalarInfo struct {
	Name        string `json:"name"`
	Variant     string `json:"variant"`
	Description string `json:"description,omitempty"`
}

// NewScalarsCommand creates the scalars command.
func NewScalarsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScalarsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scalars",
		Short: "List registered scalars",
		Long: `List the scalars of a scalar set: the schema-visible name, the
domain variant behind it, and its description.

Examples:
  tempoql scalars
  tempoql scalars --specs ./schemas
  tempoql scalars --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScalars(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Specs, "specs", "", "CUE schema directory (default: built-in scalars)")

	return cmd
}

func runScalars(opts *ScalarsOptions, cmd *cobra.Command) error {
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

	infos := make([]ScalarInfo, 0, reg.Len())
	for _, name := range reg.Names() {
		entry, _ := reg.Lookup(name)
		infos = append(infos, ScalarInfo{
			Name:        entry.Name,
			Variant:     entry.Variant,
			Description: entry.Description,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVARIANT\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Variant, info.Description)
	}
	w.Flush()
	return formatter.Success(strings.TrimRight(b.String(), "\n"))
}
