package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardcheck/internal/aggregator"
	"github.com/arcanaland/cardcheck/internal/config"
	"github.com/arcanaland/cardcheck/internal/validator"
)

var (
	setDirs      []string
	filePattern  string
	outputFormat string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every card file in the configured sets",
	Long: `Validate walks each configured set directory, classifies every card file by its
cardType and checks it against the schema for that category.

The command exits with status 1 if any card is invalid or if a configured schema
file or set directory could not be found.

Examples:
  cardcheck validate
  cardcheck validate --base ~/pokemon-tcg --embedded-schemas
  cardcheck validate --set "./06 - Gym Heroes (G1)/card_details" --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := aggregator.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("set") {
			sets, err := setsFromFlags(setDirs)
			if err != nil {
				return err
			}
			cfg.Sets = sets
		}
		if cmd.Flags().Changed("pattern") {
			cfg.Pattern = filePattern
		}
		if !doublestar.ValidatePattern(cfg.Pattern) {
			return fmt.Errorf("invalid file pattern: %s", cfg.Pattern)
		}

		cmd.SilenceUsage = true

		schemas, err := loadSchemas()
		if err != nil {
			return err
		}
		sets, err := cfg.ResolveSets()
		if err != nil {
			return err
		}

		agg := aggregator.NewAggregator(
			validator.NewValidator(schemas),
			aggregator.WithPattern(cfg.Pattern),
			aggregator.WithLogger(logger),
		)
		summary := agg.Run(schemas.Statuses(), sets)

		if err := aggregator.Write(cmd.OutOrStdout(), summary, format, terminalWidth()); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}

		if !summary.OK() {
			return errValidationFailed
		}
		return nil
	},
}

// setsFromFlags turns --set directories into absolute set entries
func setsFromFlags(dirs []string) ([]config.Set, error) {
	sets := make([]config.Set, 0, len(dirs))
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("error resolving set directory %s: %w", dir, err)
		}
		sets = append(sets, config.Set{Path: abs})
	}
	return sets, nil
}

func init() {
	validateCmd.Flags().StringArrayVar(&setDirs, "set", nil, "Set directory to validate instead of the configured sets (repeatable)")
	validateCmd.Flags().StringVar(&filePattern, "pattern", config.DefaultPattern, "Pattern card files must match inside a set directory")
	validateCmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Report format: text, json or yaml")
}
