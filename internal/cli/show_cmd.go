package cli

import (
	"github.com/go-sif/tabula/display"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	var (
		lf         loadFlags
		limit      int
		noTruncate bool
	)
	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print the rows of a file, directory or glob",
		Example: `  tabula show people.csv --infer-schema
  tabula show 'logs/*.json' --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd, args[0], &lf)
			if err != nil {
				return err
			}
			return display.Show(cmd.OutOrStdout(), t, limit, !noTruncate)
		},
	}
	lf.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", display.DefaultRows, "Number of rows to show")
	cmd.Flags().BoolVar(&noTruncate, "no-truncate", false, "Show long values in full")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	var lf loadFlags
	cmd := &cobra.Command{
		Use:   "schema <path>",
		Short: "Print the schema of a file, directory or glob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd, args[0], &lf)
			if err != nil {
				return err
			}
			return display.PrintSchema(cmd.OutOrStdout(), t.Schema())
		},
	}
	lf.register(cmd)
	return cmd
}
