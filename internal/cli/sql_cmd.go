package cli

import (
	"fmt"
	"strings"

	"github.com/go-sif/tabula/catalog"
	"github.com/go-sif/tabula/datasource"
	"github.com/go-sif/tabula/display"
	"github.com/go-sif/tabula/sql"
	"github.com/go-sif/tabula/stats"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type viewSource struct {
	name   string
	path   string
	format string
}

// viewsFlag collects repeated --view name=path[:format] flags
type viewsFlag struct {
	views []viewSource
}

var _ pflag.Value = (*viewsFlag)(nil)

func (v *viewsFlag) String() string {
	parts := make([]string, len(v.views))
	for i, view := range v.views {
		parts[i] = view.name + "=" + view.path
		if len(view.format) > 0 {
			parts[i] += ":" + view.format
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (v *viewsFlag) Set(value string) error {
	name, path, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !ok || len(name) == 0 || len(path) == 0 {
		return fmt.Errorf("expected name=path[:format], got %q", value)
	}
	view := viewSource{name: name, path: path}
	if i := strings.LastIndex(path, ":"); i > 0 {
		if _, err := datasource.ParseFormat(path[i+1:]); err == nil {
			view.path = path[:i]
			view.format = path[i+1:]
		}
	}
	v.views = append(v.views, view)
	return nil
}

func (v *viewsFlag) Type() string {
	return "name=path[:format]"
}

func newSQLCmd(a *app) *cobra.Command {
	var (
		views       viewsFlag
		limit       int
		inferSchema bool
		showStats   bool
	)
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Run a SELECT query over files registered as views",
		Example: `  tabula sql --view people=people.csv "SELECT name, age FROM people WHERE age > 30 ORDER BY age DESC"
  tabula sql --view logs=logs/:json "SELECT DISTINCT level FROM logs"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.New(catalog.WithLogger(a.logger))
			for _, view := range views.views {
				lf := loadFlags{format: view.format, inferSchema: inferSchema}
				t, err := a.load(cmd, view.path, &lf)
				if err != nil {
					return fmt.Errorf("load view %s: %w", view.name, err)
				}
				if err := cat.RegisterView(t, view.name); err != nil {
					return err
				}
			}
			if !showStats {
				res, err := sql.Execute(cat, args[0])
				if err != nil {
					return err
				}
				return display.Show(cmd.OutOrStdout(), res, limit, true)
			}

			q, err := sql.Parse(args[0])
			if err != nil {
				return err
			}
			view, err := cat.View(q.From)
			if err != nil {
				return err
			}
			ops, err := q.Compile(view.Schema())
			if err != nil {
				return err
			}
			res, rs, err := stats.Run(view, ops...)
			a.logger.Info("query statistics", "stats", rs)
			if err != nil {
				return err
			}
			return display.Show(cmd.OutOrStdout(), res, limit, true)
		},
	}
	cmd.Flags().Var(&views, "view", "Register a file, directory or glob as a view (repeatable)")
	cmd.Flags().IntVarP(&limit, "limit", "n", display.DefaultRows, "Number of rows to show")
	cmd.Flags().BoolVar(&inferSchema, "infer-schema", false, "Infer column types of delimited input")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Log the runtime and row counts of each query step")
	return cmd
}
