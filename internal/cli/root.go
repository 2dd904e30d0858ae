package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlcontainer/internal/config"
	"github.com/roach88/sqlcontainer/internal/dialect"
	"github.com/roach88/sqlcontainer/internal/sqlgen"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config and Logger are set by the root command before a subcommand
	// runs. Subcommands built on their own fall back to defaults.
	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sqlcontainer CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sqlcontainer",
		Short: "Dialect-aware SQL generation",
		Long: `Generate parameterized, dialect-specific SQL from query descriptors.

Dialects are resolved from JDBC driver identifiers. Unknown identifiers fail
unless --best-effort is given, in which case the Default dialect is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, _, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeConfig, err)
			}
			level, _ := cfg.SlogLevel()
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.Config = cfg
			opts.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: sqlcontainer.yaml in the working directory or a parent)")

	cmd.AddCommand(NewDialectsCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewEscapeCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return &config.Config{}
	}
	return o.Config
}

func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// dialectFlags are shared by commands that need a generator.
type dialectFlags struct {
	driver     string
	dialect    string
	bestEffort bool
}

func (f *dialectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.driver, "driver", "", "JDBC driver identifier (overrides config)")
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "dialect name, used when no driver is given (postgresql, mysql, ...)")
	cmd.Flags().BoolVar(&f.bestEffort, "best-effort", false, "fall back to the default dialect for unknown drivers")
}

// generator resolves the generator from flags, then config. With neither a
// driver nor a dialect name the Default generator is used.
func (f *dialectFlags) generator(o *RootOptions) (*sqlgen.Generator, error) {
	cfg := o.config()
	driver := firstNonEmpty(f.driver, cfg.Driver)
	name := firstNonEmpty(f.dialect, cfg.Dialect)
	bestEffort := f.bestEffort || cfg.BestEffort
	logOpt := sqlgen.WithLogger(o.logger())

	if driver == "" && name != "" {
		d, ok := dialect.Parse(name)
		if !ok {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("%s: unknown dialect name %q", ErrCodeArgs, name))
		}
		return sqlgen.New(d, logOpt), nil
	}
	if bestEffort {
		return sqlgen.ForDriverBestEffort(driver, logOpt), nil
	}
	return sqlgen.ForDriver(driver, logOpt)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
