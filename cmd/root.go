package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/cardcheck/internal/config"
	"github.com/arcanaland/cardcheck/internal/logging"
)

var (
	configPath      string
	baseDir         string
	schemaDir       string
	embeddedSchemas bool
	noColor         bool
	logLevel        string
	verbose         bool

	// cfg and logger are set up before any command runs
	cfg    *config.Config
	logger = zerolog.Nop()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardcheck",
	Short: "Tool for validating Pokémon TCG card data",
	Long: `Cardcheck is a command-line tool for validating Pokémon Trading Card Game card data.
Each card file is classified as a Pokémon, trainer item, trainer supporter or energy card
and checked against the JSON Schema for its category.`,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/cardcheck/config.toml)")
	flags.StringVar(&baseDir, "base", "", "Directory that set and schema paths are relative to")
	flags.StringVar(&schemaDir, "schemas", "", "Directory holding the <category>-card-schema.json files")
	flags.BoolVar(&embeddedSchemas, "embedded-schemas", false, "Use the schemas bundled with cardcheck")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every checked file (same as --log-level debug)")

	RootCmd.MarkFlagsMutuallyExclusive("schemas", "embedded-schemas")
	RootCmd.AddCommand(validateCmd)
}

// setup loads the config file and applies the global flags on top of it
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("base") {
		loaded.BaseDir = baseDir
	}
	if flags.Changed("schemas") {
		loaded.SchemaDir = schemaDir
	}
	if embeddedSchemas {
		loaded.SchemaDir = ""
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if verbose {
		loaded.LogLevel = "debug"
	}
	cfg = loaded

	if noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	logger = logging.New(os.Stderr, cfg.LogLevel, color.NoColor)

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
