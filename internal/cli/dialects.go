package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/sqlgen"
)

// DialectInfo describes one dialect for output.
type DialectInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	DriverID    string `json:"driver_id,omitempty"`
	GoDriver    string `json:"go_driver,omitempty"`
	QuoteStart  string `json:"quote_start"`
	QuoteEnd    string `json:"quote_end"`
}

func describe(d dialect.Dialect) DialectInfo {
	caps := sqlgen.Profile(d)
	return DialectInfo{
		Name:        d.String(),
		DisplayName: d.DisplayName(),
		DriverID:    d.DriverIdentifier(),
		GoDriver:    d.DriverName(),
		QuoteStart:  caps.QuoteStart,
		QuoteEnd:    caps.QuoteEnd,
	}
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "dialects",
		Short:         "List supported dialects and their driver identifiers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialects(rootOpts, cmd)
		},
	}
}

func runDialects(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	infos := make([]DialectInfo, 0, len(dialect.All()))
	for _, d := range dialect.All() {
		infos = append(infos, describe(d))
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tDRIVER IDENTIFIER\tGO DRIVER")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, info.DisplayName, orDash(info.DriverID), orDash(info.GoDriver))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
