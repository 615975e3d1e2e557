// Package sync implements the snapshot reconciliation engine: a
// three-phase synchronizer (upload, delete-remote, download) over a
// single remote snapshot document.
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptkit/promptsync/internal/checksum"
	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/localdata"
	"github.com/promptkit/promptsync/internal/models"
	"github.com/promptkit/promptsync/internal/remote"
	"github.com/promptkit/promptsync/internal/snapshot"
)

// Engine drives one device's reconciliation against the shared remote
// snapshot. All collaborators are injected; the engine holds no ambient
// state, so parallel test instances are safe.
type Engine struct {
	local   localdata.Source
	remote  *remote.SnapshotStore
	builder *snapshot.Builder
	policy  ConflictPolicy
	device  models.DeviceInfo
	logger  *events.Logger

	mu      sync.Mutex
	syncing bool
}

// NewEngine creates a sync engine. A nil policy defaults to RemoteWins.
func NewEngine(
	local localdata.Source,
	remoteStore *remote.SnapshotStore,
	builder *snapshot.Builder,
	device models.DeviceInfo,
	policy ConflictPolicy,
	logger *events.Logger,
) *Engine {
	if policy == nil {
		policy = RemoteWinsPolicy
	}
	return &Engine{
		local:   local,
		remote:  remoteStore,
		builder: builder,
		policy:  policy,
		device:  device,
		logger:  logger.WithField("component", "sync_engine"),
	}
}

// PerformSync runs a full synchronization and always returns a result
// object. Any error escaping the phases is captured once here and turned
// into a failed result; remote writes that already happened stay in
// place, so a retry of the whole sync converges.
func (e *Engine) PerformSync(ctx context.Context) *models.SyncResult {
	result := models.NewSyncResult()

	e.mu.Lock()
	if e.syncing {
		e.mu.Unlock()
		return result.Fail(models.ErrSyncInProgress)
	}
	e.syncing = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.syncing = false
		e.mu.Unlock()
	}()

	start := time.Now()
	e.logger.WithField("device_id", e.device.ID).Info("Starting sync")

	if err := e.performSync(ctx, result); err != nil {
		e.logger.WithError(err).Error("Sync failed")
		return result.Fail(err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("sync completed: %d created, %d updated, %d deleted, %d conflicts resolved",
		result.ItemsCreated, result.ItemsUpdated, result.ItemsDeleted, result.ConflictsResolved)

	e.logger.WithFields(map[string]interface{}{
		"duration":  time.Since(start),
		"created":   result.ItemsCreated,
		"updated":   result.ItemsUpdated,
		"deleted":   result.ItemsDeleted,
		"conflicts": result.ConflictsResolved,
	}).Info("Sync completed")

	return result
}

// performSync fetches both snapshots and drives the phases in order.
func (e *Engine) performSync(ctx context.Context, result *models.SyncResult) error {
	export, err := e.local.GenerateExport(ctx)
	if err != nil {
		return fmt.Errorf("generate export data: %w", err)
	}

	localSnap, err := e.builder.Build(export)
	if err != nil {
		return fmt.Errorf("build local snapshot: %w", err)
	}

	remoteSnap, err := e.remote.Get(ctx)
	if err != nil {
		return fmt.Errorf("read remote snapshot: %w", err)
	}

	if remoteSnap == nil {
		return e.initialUpload(ctx, localSnap, result)
	}

	localMap := localSnap.ItemMap()
	result.ItemsProcessed = unionSize(localMap, remoteSnap.ItemMap())

	// The causal cutoff for remote-only items: anything authored after
	// this device last reconciled cannot have been seen and deleted
	// here, so it is a remote creation. Zero on first sync means nothing
	// gets classified as a local deletion.
	cutoff := lastSyncBaseline(localSnap)

	remoteSnap, err = e.uploadPhase(ctx, localMap, remoteSnap, result)
	if err != nil {
		return err
	}

	remoteSnap, err = e.deleteRemotePhase(ctx, cutoff, localMap, remoteSnap, result)
	if err != nil {
		return err
	}

	return e.downloadPhase(ctx, cutoff, localMap, remoteSnap, result)
}

// initialUpload handles the first sync against an empty remote: no
// reconciliation, just publish the local snapshot verbatim.
func (e *Engine) initialUpload(ctx context.Context, localSnap *models.SyncSnapshot, result *models.SyncResult) error {
	e.logger.WithField("items", len(localSnap.Items)).Info("No remote snapshot, performing initial upload")

	if err := e.remote.EnsureDir(ctx); err != nil {
		return err
	}

	if err := e.remote.Write(ctx, localSnap); err != nil {
		return err
	}

	result.ItemsProcessed = len(localSnap.Items)
	result.ItemsCreated = len(localSnap.Items)
	result.Phases.Upload = models.PhaseResult{Completed: true, Items: len(localSnap.Items)}
	result.Phases.DeleteRemote = models.PhaseResult{Completed: true}
	result.Phases.Download = models.PhaseResult{Completed: true}

	return nil
}

// uploadPhase pushes local creations and strictly-newer local updates.
// Items where remote is newer or equal are left for the download phase,
// so upload never clobbers a fresher remote value.
func (e *Engine) uploadPhase(
	ctx context.Context,
	localMap map[string]models.SyncItem,
	remoteSnap *models.SyncSnapshot,
	result *models.SyncResult,
) (*models.SyncSnapshot, error) {
	remoteMap := remoteSnap.ItemMap()
	now := time.Now().UTC()

	var staged []models.SyncItem
	for id, localItem := range localMap {
		remoteItem, exists := remoteMap[id]
		if !exists {
			e.logger.WithField("item_id", id).Debug("Local creation, staging for upload")
			result.ItemsCreated++
		} else if !needsUpload(localItem, remoteItem) {
			continue
		} else {
			e.logger.WithField("item_id", id).Debug("Local is strictly newer, staging for upload")
			result.ItemsUpdated++
		}

		// Stamp the reconciliation time the engine reads back as the
		// conflict baseline on later syncs. Checksums ignore syncTime.
		localItem.Metadata.SyncTime = now
		staged = append(staged, localItem)
	}

	if len(staged) == 0 {
		result.Phases.Upload = models.PhaseResult{Completed: true}
		return remoteSnap, nil
	}

	for _, item := range staged {
		remoteMap[item.ID] = item
	}

	next := e.newRemoteSnapshot(remoteMap, nil)
	if err := e.remote.Write(ctx, next); err != nil {
		result.Phases.Upload.Errors = append(result.Phases.Upload.Errors, err.Error())
		return nil, &models.SyncError{Code: models.ErrCodeRemote, Phase: "upload", Err: err}
	}

	result.Phases.Upload = models.PhaseResult{Completed: true, Items: len(staged)}
	e.logger.WithField("items", len(staged)).Info("Upload phase complete")

	return next, nil
}

// deleteRemotePhase removes remote items that no longer exist locally.
// Running after upload guarantees a fresh local item can never look
// simultaneously missing-locally in the same cycle. The cutoff
// disambiguates the two reasons an item can be missing from the local
// map: authored before this device last reconciled means it was deleted
// here, authored after means another device created it and the download
// phase must pull it instead.
func (e *Engine) deleteRemotePhase(
	ctx context.Context,
	cutoff time.Time,
	localMap map[string]models.SyncItem,
	remoteSnap *models.SyncSnapshot,
	result *models.SyncResult,
) (*models.SyncSnapshot, error) {
	remoteMap := remoteSnap.ItemMap()

	deleted := 0
	for id, remoteItem := range remoteMap {
		if _, exists := localMap[id]; exists {
			continue
		}
		if !remoteItem.Metadata.UpdatedAt.Before(cutoff) {
			continue
		}
		e.logger.WithField("item_id", id).Debug("Locally deleted, removing from remote")
		delete(remoteMap, id)
		deleted++
	}

	if deleted == 0 {
		result.Phases.DeleteRemote = models.PhaseResult{Completed: true}
		return remoteSnap, nil
	}

	next := e.newRemoteSnapshot(remoteMap, nil)
	if err := e.remote.Write(ctx, next); err != nil {
		result.Phases.DeleteRemote.Errors = append(result.Phases.DeleteRemote.Errors, err.Error())
		return nil, &models.SyncError{Code: models.ErrCodeRemote, Phase: "delete_remote", Err: err}
	}

	result.ItemsDeleted = deleted
	result.Phases.DeleteRemote = models.PhaseResult{Completed: true, Items: deleted}
	e.logger.WithField("items", deleted).Info("Delete-remote phase complete")

	return next, nil
}

// downloadPhase pulls remote-side creations and updates, resolving
// conflicts through the policy, and applies the whole batch locally.
func (e *Engine) downloadPhase(
	ctx context.Context,
	cutoff time.Time,
	localMap map[string]models.SyncItem,
	remoteSnap *models.SyncSnapshot,
	result *models.SyncResult,
) error {
	var toDownload []models.SyncItem

	for _, remoteItem := range remoteSnap.Items {
		localItem, exists := localMap[remoteItem.ID]
		if !exists {
			// A remote item authored before the cutoff was deleted
			// locally in an earlier cycle and must not come back.
			if remoteItem.Metadata.UpdatedAt.Before(cutoff) {
				e.logger.WithField("item_id", remoteItem.ID).Debug("Skipping locally deleted item, not resurrecting")
				continue
			}
			e.logger.WithField("item_id", remoteItem.ID).Debug("Remote creation, staging for download")
			toDownload = append(toDownload, remoteItem)
			result.ItemsCreated++
			continue
		}

		action := compareItems(localItem, remoteItem)
		switch action {
		case actionNone:
			// Content identical

		case actionDownload:
			e.logger.WithField("item_id", remoteItem.ID).Debug("Remote is newer, staging for download")
			toDownload = append(toDownload, remoteItem)
			result.ItemsUpdated++

		case actionKeepLocal:
			e.logger.WithField("item_id", remoteItem.ID).Debug("Local is newer, no action in download phase")

		case actionConflict:
			resolution := e.policy(localItem, remoteItem)
			result.ConflictDetails = append(result.ConflictDetails, models.ConflictDetail{
				ItemID:     remoteItem.ID,
				LocalItem:  localItem,
				RemoteItem: remoteItem,
				Resolution: resolution,
			})
			result.ConflictsResolved++

			e.logger.WithFields(map[string]interface{}{
				"item_id":  remoteItem.ID,
				"strategy": resolution.Strategy,
			}).Warn("Conflict resolved")

			switch resolution.Strategy {
			case models.ResolutionLocalWins:
				// Local stays; upload already pushed it if strictly newer.
			case models.ResolutionRemoteWins:
				toDownload = append(toDownload, remoteItem)
			default:
				e.logger.WithField("strategy", resolution.Strategy).Warn("Unsupported resolution strategy, keeping remote version")
				toDownload = append(toDownload, remoteItem)
			}
		}
	}

	if len(toDownload) > 0 {
		data := snapshot.ToExportShape(toDownload)
		if err := e.local.ApplyImport(ctx, data); err != nil {
			result.Phases.Download.Errors = append(result.Phases.Download.Errors, err.Error())
			return &models.SyncError{Code: models.ErrCodeLocal, Phase: "download", Err: err}
		}
	}

	result.Phases.Download = models.PhaseResult{Completed: true, Items: len(toDownload)}
	e.logger.WithField("items", len(toDownload)).Info("Download phase complete")

	return nil
}

// itemAction is the per-item decision of the download phase.
type itemAction int

const (
	actionNone itemAction = iota
	actionDownload
	actionKeepLocal
	actionConflict
)

// compareItems decides what to do with an item present on both sides.
// The conflict baseline is the item's last reconciliation time; both
// sides having moved past it means independent divergence.
func compareItems(local, remote models.SyncItem) itemAction {
	if local.Metadata.Checksum == remote.Metadata.Checksum {
		return actionNone
	}

	lastSync := local.Metadata.SyncTime // zero value is the epoch
	localModified := local.Metadata.UpdatedAt.After(lastSync)
	remoteModified := remote.Metadata.UpdatedAt.After(lastSync)

	if localModified && remoteModified {
		return actionConflict
	}

	if remote.Metadata.UpdatedAt.After(local.Metadata.UpdatedAt) {
		return actionDownload
	}
	return actionKeepLocal
}

// needsUpload holds when the local item should replace the remote one:
// real content difference and a strictly newer local timestamp.
func needsUpload(local, remote models.SyncItem) bool {
	if local.Metadata.Checksum == remote.Metadata.Checksum {
		return false
	}
	return local.Metadata.UpdatedAt.After(remote.Metadata.UpdatedAt)
}

// newRemoteSnapshot assembles the next remote document from an item map,
// with a fresh syncId and recomputed aggregate checksum.
func (e *Engine) newRemoteSnapshot(itemMap map[string]models.SyncItem, resolutions []models.ConflictResolution) *models.SyncSnapshot {
	items := make([]models.SyncItem, 0, len(itemMap))
	for _, item := range itemMap {
		items = append(items, item)
	}

	return &models.SyncSnapshot{
		Timestamp: time.Now().UTC(),
		Version:   models.SnapshotFormatVersion,
		DeviceID:  e.device.ID,
		Items:     items,
		Metadata: models.SnapshotMetadata{
			TotalItems:        len(items),
			Checksum:          checksum.AggregateChecksum(items, e.logger),
			SyncID:            uuid.NewString(),
			ConflictsResolved: resolutions,
			DeviceInfo:        e.device,
		},
	}
}

// lastSyncBaseline returns the most recent reconciliation time recorded
// across the local items, the zero time when this device never synced.
func lastSyncBaseline(localSnap *models.SyncSnapshot) time.Time {
	var baseline time.Time
	for _, item := range localSnap.Items {
		if item.Metadata.SyncTime.After(baseline) {
			baseline = item.Metadata.SyncTime
		}
	}
	return baseline
}

func unionSize(a, b map[string]models.SyncItem) int {
	n := len(a)
	for id := range b {
		if _, ok := a[id]; !ok {
			n++
		}
	}
	return n
}
