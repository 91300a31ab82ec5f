package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcanaland/cardcheck/internal/config"
)

// configCmd represents the config command group. Its subcommands must work
// even when the existing config file does not parse, so the root setup is skipped.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cardcheck configuration file",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFileLocation()
		if _, err := config.Init(path); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Config file initialized at:", path)
		fmt.Fprintln(out, "Edit base_dir and [[sets]] to point at your card data.")
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configFileLocation())
	},
}

// configFileLocation returns --config or the default config file path
func configFileLocation() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigFilePath()
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
