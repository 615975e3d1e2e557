package sync

import (
	"time"

	"github.com/promptkit/promptsync/internal/models"
)

// ConflictPolicy decides how to resolve one item-level conflict. The
// engine detects conflicts; the policy only picks a winner. Alternate
// policies can be injected without touching the phase sequencing.
type ConflictPolicy func(local, remote models.SyncItem) models.ConflictResolution

// RemoteWinsPolicy is the default: the remote version is always kept.
// Deterministic across devices, at the cost of discarding the local edit
// (which remains visible in the conflict details for audit).
func RemoteWinsPolicy(local, remote models.SyncItem) models.ConflictResolution {
	return models.ConflictResolution{
		ItemID:    remote.ID,
		Strategy:  models.ResolutionRemoteWins,
		Timestamp: time.Now().UTC(),
		Reason:    "both sides modified since last sync; remote version kept",
	}
}

// LocalWinsPolicy keeps the local version. The local item was already
// pushed by the upload phase when it was strictly newer; with this policy
// the download phase simply leaves it in place.
func LocalWinsPolicy(local, remote models.SyncItem) models.ConflictResolution {
	return models.ConflictResolution{
		ItemID:    local.ID,
		Strategy:  models.ResolutionLocalWins,
		Timestamp: time.Now().UTC(),
		Reason:    "both sides modified since last sync; local version kept",
	}
}
