package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/cardcheck/internal/schema"
)

// schemasCmd represents the schemas command group
var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Inspect the card schemas",
}

var schemasListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the card categories and whether their schema loaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemas, err := loadSchemas()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, st := range schemas.Statuses() {
			switch {
			case st.State == schema.Missing:
				color.New(color.FgYellow).Fprintf(out, "  %-16s missing  %s\n", st.Category, st.Path)
			case st.State == schema.Failed:
				color.New(color.FgRed).Fprintf(out, "  %-16s failed   %s\n", st.Category, st.Error)
			case st.SchemaError != "":
				color.New(color.FgRed).Fprintf(out, "  %-16s invalid  %s\n", st.Category, st.SchemaError)
			default:
				fmt.Fprintf(out, "  %-16s loaded   %s\n", st.Category, st.Path)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemasCmd)
	schemasCmd.AddCommand(schemasListCmd)
}
