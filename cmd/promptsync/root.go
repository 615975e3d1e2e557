package main

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/promptkit/promptsync/internal/client"
	"github.com/promptkit/promptsync/internal/config"
	"github.com/promptkit/promptsync/internal/events"
)

var rootCmd = &cobra.Command{
	Use:   "promptsync",
	Short: "Synchronize prompt library data over WebDAV",
	Long: `Promptsync reconciles a local prompt library (categories, prompts,
AI configurations and settings) with a snapshot document stored on a
WebDAV server, so multiple devices converge on the same data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return initApp()
	},
}

var (
	cfgFile    string
	jsonOutput bool
	verbose    bool

	cfg       *config.Config
	logger    *events.Logger
	apiClient *client.Client
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output machine-readable JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

// initApp loads config and wires the client. Runs once per invocation.
func initApp() error {
	loaded, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}
	cfg = loaded

	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, err = events.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	events.SetDefault(logger)

	// WebDAV password may come from config, env, or a prompt
	if cfg.Remote.Password == "" && cfg.Remote.Username != "" {
		password, err := promptPassword(fmt.Sprintf("WebDAV password for %s: ", cfg.Remote.Username))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		cfg.Remote.Password = password
	}

	apiClient, err = client.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize client: %w", err)
	}

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the promptsync version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("promptsync %s\n", client.AppVersion)
	},
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	// Read password without echo
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return "", err
	}

	return string(password), nil
}

// Output helpers

func printSuccess(format string, args ...interface{}) {
	color.Green(format, args...)
}

func printWarning(format string, args ...interface{}) {
	color.Yellow(format, args...)
}

func printError(format string, args ...interface{}) {
	color.Red(format, args...)
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError("marshal output: %v", err)
		return
	}
	fmt.Println(string(data))
}
