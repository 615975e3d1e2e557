package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptkit/promptsync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage promptsync configuration",
	// Writing an example file needs no loaded config or client
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example config file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.json"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", path)
		}

		if err := config.SaveExample(path); err != nil {
			return err
		}

		printSuccess("Wrote example config to %s", path)
		fmt.Println("Edit remote.base_url and credentials, then run: promptsync sync --config " + path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
