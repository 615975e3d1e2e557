package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize local data with the remote snapshot",
	Long: `Sync builds a snapshot of the local prompt library, reconciles it
against the snapshot document on the WebDAV server in three phases
(upload, delete-remote, download), and applies downloaded changes
locally. Conflicts are resolved remote-wins and reported.`,
	Example: `  promptsync sync
  promptsync sync --json`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	defer apiClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		printWarning("\nSync interrupted, cancelling...")
		cancel()
	}()

	start := time.Now()
	result := apiClient.Sync.Sync(ctx)
	duration := time.Since(start)

	if jsonOutput {
		printJSON(result)
		if !result.Success {
			os.Exit(1)
		}
		return nil
	}

	printSummary(result, duration)

	if !result.Success {
		os.Exit(1)
	}
	return nil
}
