package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptkit/promptsync/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current remote snapshot",
	Long:  `Status fetches the remote snapshot document and displays its metadata.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	defer apiClient.Close()

	ctx := context.Background()

	snap, err := apiClient.Sync.RemoteSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch remote snapshot: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]interface{}{
			"exists":   snap != nil,
			"snapshot": snap,
		})
		return nil
	}

	if snap == nil {
		printWarning("No remote snapshot found; the next sync will perform an initial upload.")
		return nil
	}

	fmt.Printf("Remote snapshot:\n")
	fmt.Printf("  Written:    %s\n", snap.Timestamp.Local().Format(time.RFC1123))
	fmt.Printf("  Format:     %s\n", snap.Version)
	fmt.Printf("  Device:     %s (%s)\n", snap.Metadata.DeviceInfo.Name, snap.DeviceID)
	fmt.Printf("  Sync ID:    %s\n", snap.Metadata.SyncID)
	fmt.Printf("  Items:      %d\n", snap.Metadata.TotalItems)
	fmt.Printf("  Checksum:   %s\n", snap.Metadata.Checksum)

	counts := make(map[models.ItemType]int)
	for _, item := range snap.Items {
		counts[item.Type]++
	}
	fmt.Printf("  Categories: %d  Prompts: %d  AI configs: %d  Settings: %d\n",
		counts[models.ItemTypeCategory], counts[models.ItemTypePrompt],
		counts[models.ItemTypeAIConfig], counts[models.ItemTypeSetting])

	if len(snap.Metadata.ConflictsResolved) > 0 {
		fmt.Printf("  Conflicts resolved in last write: %d\n", len(snap.Metadata.ConflictsResolved))
	}

	return nil
}
