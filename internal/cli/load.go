package cli

import (
	"github.com/go-sif/tabula"
	"github.com/go-sif/tabula/datasource"
	"github.com/spf13/cobra"
)

// loadFlags are the flags shared by every command which loads files
type loadFlags struct {
	format      string
	inferSchema bool
	schema      string
	multiline   bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "Input format (csv, json, parquet, arrow). Detected from the file extension by default.")
	cmd.Flags().BoolVar(&f.inferSchema, "infer-schema", false, "Infer column types of delimited input")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Schema of the input, as DDL such as \"name STRING, age INT\"")
	cmd.Flags().BoolVar(&f.multiline, "multiline", false, "Read JSON input as a single document")
}

func (a *app) resolveFormat(path string, name string) (datasource.Format, error) {
	if len(name) == 0 {
		name = a.cfg.Loader.Format
	}
	if len(name) == 0 {
		return datasource.FormatFromPath(path)
	}
	return datasource.ParseFormat(name)
}

func (a *app) load(cmd *cobra.Command, path string, f *loadFlags) (tabula.Table, error) {
	format, err := a.resolveFormat(path, f.format)
	if err != nil {
		return nil, err
	}
	opts := a.cfg.LoaderOptions(a.logger)
	if cmd.Flags().Changed("infer-schema") {
		opts.InferSchema = f.inferSchema
	}
	if cmd.Flags().Changed("multiline") {
		opts.Multiline = f.multiline
	}
	opts.DDL = f.schema
	return datasource.Load(path, format, opts)
}
