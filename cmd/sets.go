package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardcheck/internal/aggregator"
)

// setsCmd represents the sets command group
var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Inspect the configured card sets",
	Long:  `Commands for inspecting the card set directories cardcheck validates.`,
}

// setsListCmd represents the sets ls command
var setsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List configured sets and how many card files each holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, err := cfg.ResolveSets()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sets) == 0 {
			fmt.Fprintln(out, "No sets configured.")
			fmt.Fprintln(out, "Add [[sets]] entries to:", configFileLocation())
			return nil
		}

		agg := aggregator.NewAggregator(nil, aggregator.WithPattern(cfg.Pattern))
		for _, set := range sets {
			if info, err := os.Stat(set.Path); err != nil || !info.IsDir() {
				color.New(color.FgYellow).Fprintf(out, "  %s [MISSING] %s\n", set.Name, set.Path)
				continue
			}

			files, err := agg.ListFiles(set.Path)
			if err != nil {
				color.New(color.FgRed).Fprintf(out, "  %s [ERROR] %v\n", set.Name, err)
				continue
			}
			fmt.Fprintf(out, "  %s (%d cards)\n", set.Name, len(files))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(setsCmd)
	setsCmd.AddCommand(setsListCmd)
}
