package main

import (
	"fmt"
	"time"

	"github.com/promptkit/promptsync/internal/models"
)

// printSummary renders a human-readable sync result.
func printSummary(result *models.SyncResult, duration time.Duration) {
	if result.Success {
		printSuccess("Sync completed in %s", duration.Round(time.Millisecond))
	} else {
		printError("Sync failed: %s", result.Message)
	}

	fmt.Printf("\n  Processed: %d\n", result.ItemsProcessed)
	fmt.Printf("  Created:   %d\n", result.ItemsCreated)
	fmt.Printf("  Updated:   %d\n", result.ItemsUpdated)
	fmt.Printf("  Deleted:   %d\n", result.ItemsDeleted)

	fmt.Printf("\n  Phases: upload=%s delete-remote=%s download=%s\n",
		phaseLabel(result.Phases.Upload),
		phaseLabel(result.Phases.DeleteRemote),
		phaseLabel(result.Phases.Download))

	if result.ConflictsResolved > 0 {
		printWarning("\n  Conflicts resolved: %d", result.ConflictsResolved)
		for _, detail := range result.ConflictDetails {
			title := detail.RemoteItem.Title
			if title == "" {
				title = detail.ItemID
			}
			fmt.Printf("    - %s (%s): %s\n", title, detail.ItemID, detail.Resolution.Strategy)
		}
	}

	for _, errMsg := range result.Errors {
		printError("  Error: %s", errMsg)
	}
}

func phaseLabel(phase models.PhaseResult) string {
	if !phase.Completed {
		return "incomplete"
	}
	return fmt.Sprintf("ok(%d)", phase.Items)
}
