package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/sqlgen"
)

// ResolveResult is the output of the resolve command.
type ResolveResult struct {
	DriverID string      `json:"driver_id"`
	Fallback bool        `json:"fallback"`
	Dialect  DialectInfo `json:"dialect"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var bestEffort bool

	cmd := &cobra.Command{
		Use:   "resolve <driver-id>",
		Short: "Resolve a JDBC driver identifier to a dialect",
		Long: `Resolve a JDBC driver identifier to a dialect.

Matching is exact and case-sensitive. An unknown identifier is an error
unless --best-effort is given, which reports the Default dialect instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], bestEffort || rootOpts.config().BestEffort, cmd)
		},
	}

	cmd.Flags().BoolVar(&bestEffort, "best-effort", false, "fall back to the default dialect for unknown drivers")

	return cmd
}

func runResolve(opts *RootOptions, driverID string, bestEffort bool, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var g *sqlgen.Generator
	if bestEffort {
		g = sqlgen.ForDriverBestEffort(driverID, sqlgen.WithLogger(opts.logger()))
	} else {
		var err error
		g, err = sqlgen.ForDriver(driverID, sqlgen.WithLogger(opts.logger()))
		if err != nil {
			return formatter.Fail(err)
		}
	}

	_, known := dialect.Resolve(driverID)
	result := ResolveResult{
		DriverID: driverID,
		Fallback: !known && driverID != "",
		Dialect:  describe(g.Dialect()),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	if result.Fallback {
		fmt.Fprintf(formatter.Writer, "%s -> %s (fallback)\n", driverID, result.Dialect.DisplayName)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%s -> %s\n", orDash(driverID), result.Dialect.DisplayName)
	return nil
}
