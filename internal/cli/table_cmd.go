package cli

import (
	"fmt"

	"github.com/go-sif/tabula/config"
	"github.com/go-sif/tabula/display"
	"github.com/go-sif/tabula/warehouse"
	"github.com/go-sif/tabula/writer"
	"github.com/spf13/cobra"
)

func newTableCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Manage tables saved in the warehouse",
	}
	cmd.AddCommand(newTableSaveCmd(a), newTableListCmd(a), newTableShowCmd(a), newTableDropCmd(a))
	return cmd
}

func (a *app) openWarehouse() (*warehouse.Warehouse, error) {
	if len(a.cfg.WarehousePath) == 0 {
		return nil, fmt.Errorf("no warehouse configured: set warehouse in the config file or %s", config.EnvWarehouse)
	}
	return warehouse.Open(a.cfg.WarehousePath, warehouse.WithLogger(a.logger))
}

func newTableSaveCmd(a *app) *cobra.Command {
	var (
		lf   loadFlags
		mode string
	)
	cmd := &cobra.Command{
		Use:   "save <source> <table>",
		Short: "Save a file, directory or glob as a warehouse table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := writer.ParseMode(mode)
			if err != nil {
				return err
			}
			t, err := a.load(cmd, args[0], &lf)
			if err != nil {
				return err
			}
			w, err := a.openWarehouse()
			if err != nil {
				return err
			}
			defer w.Close()
			return w.SaveAsTable(cmd.Context(), args[1], t, m)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "error", "Behaviour when the table exists (error, append, overwrite, ignore)")
	return cmd
}

func newTableListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List warehouse tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.openWarehouse()
			if err != nil {
				return err
			}
			defer w.Close()
			names, err := w.Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newTableShowCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "show <table>",
		Short: "Print the rows of a warehouse table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWarehouse()
			if err != nil {
				return err
			}
			defer w.Close()
			t, err := w.LoadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return display.Show(cmd.OutOrStdout(), t, limit, true)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", display.DefaultRows, "Number of rows to show")
	return cmd
}

func newTableDropCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "drop <table>",
		Short: "Remove a warehouse table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.openWarehouse()
			if err != nil {
				return err
			}
			defer w.Close()
			dropped, err := w.DropTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !dropped {
				return fmt.Errorf("table %s does not exist", args[0])
			}
			return nil
		},
	}
}
