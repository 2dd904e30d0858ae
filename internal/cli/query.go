package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlcontainer/internal/descriptor"
	"github.com/roach88/sqlcontainer/internal/store"
)

// QueryResult is the output of the query command.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Total   *int64   `json:"total,omitempty"`
}

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	dialectFlags
	DSN   string
	Keys  []string
	Total bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <descriptor-file>",
		Short: "Run a query descriptor against a database",
		Long: `Run a query descriptor against a database and print the rows.

The dialect's built-in converters are applied to every column not listed
with --key. Only dialects with a Go driver (MySQL, MariaDB, PostgreSQL and
Default, which uses SQLite) can be queried.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, opts, args[0], cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "data source name (overrides config)")
	cmd.Flags().StringSliceVar(&opts.Keys, "key", nil, "key columns returned without conversion")
	cmd.Flags().BoolVar(&opts.Total, "total", false, "also report the unpaged row count")

	return cmd
}

func runQuery(rootOpts *RootOptions, opts *QueryOptions, file string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	gen, err := opts.generator(rootOpts)
	if err != nil {
		return formatter.Fail(err)
	}
	d, err := descriptor.LoadFile(file)
	if err != nil {
		return formatter.Fail(err)
	}

	dsn := firstNonEmpty(opts.DSN, rootOpts.config().DSN)
	formatter.VerboseLog("Opening %s database", gen.Dialect())
	s, err := store.Open(ctx, gen.Dialect(), dsn, store.WithGenerator(gen))
	if err != nil {
		return formatter.FailCode(ExitCommandError, ErrCodeQuery, err.Error())
	}
	defer s.Close()

	rows, err := s.Select(ctx, d, opts.Keys...)
	if err != nil {
		return formatter.Fail(err)
	}

	// Without rows the only known columns are the projected ones, which
	// are empty for SELECT *.
	result := QueryResult{Columns: d.Columns, Rows: make([][]any, 0, len(rows))}
	if result.Columns == nil {
		result.Columns = []string{}
	}
	for _, r := range rows {
		result.Columns = r.Columns
		result.Rows = append(result.Rows, r.Values)
	}
	if opts.Total {
		n, err := s.Count(ctx, d)
		if err != nil {
			return formatter.Fail(err)
		}
		result.Total = &n
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if len(result.Columns) > 0 {
		fmt.Fprintln(formatter.Writer, strings.Join(result.Columns, "\t"))
	}
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(formatter.Writer, strings.Join(cells, "\t"))
	}
	if result.Total != nil {
		fmt.Fprintf(formatter.Writer, "(%d of %d rows)\n", len(result.Rows), *result.Total)
	}
	return nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
