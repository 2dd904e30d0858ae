package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/sqlcontainer/internal/sqlutil"
)

// NewEscapeCommand creates the escape command.
func NewEscapeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "escape <text>",
		Short: "Escape text for embedding in a single-quoted SQL literal",
		Long: `Escape text for embedding in a single-quoted SQL literal.

NUL and SUB characters are removed, single quotes are doubled, backslashes
and double quotes are backslash-escaped. Prefer bound parameters.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.formatter(cmd).Success(sqlutil.Escape(args[0]))
		},
	}
}
