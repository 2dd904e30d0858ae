package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/sqlcontainer/internal/descriptor"
	"github.com/roach88/sqlcontainer/internal/sqlgen"
	"github.com/roach88/sqlcontainer/internal/statement"
)

// GeneratedStatement is one generated statement in command output.
type GeneratedStatement struct {
	File    string `json:"file"`
	Dialect string `json:"dialect"`
	SQL     string `json:"sql"`
	Args    []any  `json:"args"`
}

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	dialectFlags
	Count       bool
	Concurrency int
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <descriptor-file>...",
		Short: "Generate SQL from query descriptor files",
		Long: `Generate SQL from query descriptor files (YAML, JSON or CUE).

Files are processed concurrently; output keeps argument order. The first
failing file aborts the command.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(rootOpts, opts, args, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.Count, "count", false, "generate row count queries instead of selects")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "maximum files processed at once")

	return cmd
}

func runGenerate(rootOpts *RootOptions, opts *GenerateOptions, files []string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	gen, err := opts.generator(rootOpts)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Generating %d file(s) for dialect %s", len(files), gen.Dialect())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]GeneratedStatement, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			stmt, err := generateFile(gen, file, opts.Count)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = GeneratedStatement{
				File:    file,
				Dialect: gen.Dialect().String(),
				SQL:     stmt.SQL,
				Args:    stmt.Args,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	for _, r := range results {
		fmt.Fprintf(formatter.Writer, "-- %s\n%s\n", r.File, r.SQL)
		if len(r.Args) > 0 {
			fmt.Fprintf(formatter.Writer, "-- args: %v\n", r.Args)
		}
	}
	return nil
}

func generateFile(gen *sqlgen.Generator, file string, count bool) (statement.Statement, error) {
	d, err := descriptor.LoadFile(file)
	if err != nil {
		return statement.Statement{}, err
	}
	if count {
		return gen.GenerateCount(d)
	}
	return gen.GenerateSelect(d)
}
