package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Setting names shared by flags, the config file and the environment.
const (
	VerboseFlag = "verbose"
	FormatFlag  = "format"
	DBFlag      = "db"
	ConfigFlag  = "config"
)

// EnvPrefix prefixes environment overrides, as in RDFMAP_DB.
const EnvPrefix = "RDFMAP"

// RootOptions holds global settings for all commands. They are resolved
// from flags, then RDFMAP_ environment variables, then the config file.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // SQLite database path

	vcfg *viper.Viper
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the rdfmap CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{vcfg: viper.New()}

	cmd := &cobra.Command{
		Use:   "rdfmap",
		Short: "rdfmap - object-graph mapping over a triple store",
		Long: `Map RDF subjects to typed resources declared in a CUE schema.

Statements live in a SQLite store. Resources read and persist their
subgraph through it; lists are stored as rdf:first/rdf:rest chains.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolP(VerboseFlag, "v", false, "verbose output")
	flags.String(FormatFlag, "text", "output format (json|text)")
	flags.String(DBFlag, "rdfmap.db", "SQLite database path")
	flags.String(ConfigFlag, "", "config file (yaml, toml or json)")

	opts.vcfg.SetDefault(VerboseFlag, false)
	opts.vcfg.SetDefault(FormatFlag, "text")
	opts.vcfg.SetDefault(DBFlag, "rdfmap.db")
	// flags are constant, binding cannot fail
	if err := opts.vcfg.BindPFlags(flags); err != nil {
		panic(err)
	}
	opts.vcfg.SetEnvPrefix(EnvPrefix)
	opts.vcfg.AutomaticEnv()
	opts.vcfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewDumpCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve reads the optional config file and copies the merged settings
// into the options.
func (o *RootOptions) resolve() error {
	if path := o.vcfg.GetString(ConfigFlag); path != "" {
		o.vcfg.SetConfigFile(path)
		if err := o.vcfg.ReadInConfig(); err != nil {
			return WrapExitError(ExitCommandError, "unable to read config file", err)
		}
	}

	o.Verbose = o.vcfg.GetBool(VerboseFlag)
	o.Format = o.vcfg.GetString(FormatFlag)
	o.DB = o.vcfg.GetString(DBFlag)

	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
