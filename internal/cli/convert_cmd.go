package cli

import (
	"github.com/go-sif/tabula/datasource"
	"github.com/go-sif/tabula/writer"
	"github.com/spf13/cobra"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		lf          loadFlags
		to          string
		mode        string
		compression string
	)
	cmd := &cobra.Command{
		Use:   "convert <source> <destination>",
		Short: "Convert files to another format, writing part files to a directory",
		Example: `  tabula convert people.csv out/ --infer-schema --to parquet --mode overwrite
  tabula convert events.parquet events/ --to json --compression zstd`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(cmd, args[0], &lf)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("to") {
				to = a.cfg.Writer.Format
			}
			format, err := datasource.ParseFormat(to)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("mode") {
				mode = a.cfg.Writer.Mode
			}
			m, err := writer.ParseMode(mode)
			if err != nil {
				return err
			}
			opts := a.cfg.WriterOptions(a.logger)
			if cmd.Flags().Changed("compression") {
				opts.Compression = compression
			}
			return writer.Write(t, format, args[1], m, opts)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&lf.format, "from", "", "Input format. Detected from the file extension by default.")
	cmd.Flags().StringVar(&to, "to", "", "Output format (csv, json, parquet, arrow)")
	cmd.Flags().StringVar(&mode, "mode", "", "Behaviour when the destination holds data (error, append, overwrite, ignore)")
	cmd.Flags().StringVar(&compression, "compression", "", "Compression of csv or json output (none, lz4, zstd)")
	return cmd
}
