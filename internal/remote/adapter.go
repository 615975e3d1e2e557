package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/models"
)

// SnapshotStore reads and writes the single snapshot document at a
// well-known path through a generic Store.
type SnapshotStore struct {
	store  Store
	dir    string
	path   string
	logger *events.Logger
}

// NewSnapshotStore creates a snapshot adapter for one remote path.
func NewSnapshotStore(store Store, dir, path string, logger *events.Logger) *SnapshotStore {
	return &SnapshotStore{
		store:  store,
		dir:    dir,
		path:   path,
		logger: logger.WithField("component", "snapshot_store"),
	}
}

// Path returns the remote snapshot document path.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Get returns the remote snapshot, or nil when the document does not
// exist (the first-sync signal) or cannot be read or parsed. Unusable
// remote state is a warning, never an error: the next successful write
// replaces it wholesale.
func (s *SnapshotStore) Get(ctx context.Context) (*models.SyncSnapshot, error) {
	exists, err := s.store.Exists(ctx, s.path)
	if err != nil {
		s.logger.WithError(err).Warn("Could not stat remote snapshot, treating as absent")
		return nil, nil
	}
	if !exists {
		s.logger.WithField("path", s.path).Debug("No remote snapshot")
		return nil, nil
	}

	content, err := s.store.ReadText(ctx, s.path)
	if err != nil {
		s.logger.WithError(err).Warn("Could not read remote snapshot, treating as absent")
		return nil, nil
	}

	var snap models.SyncSnapshot
	if err := json.Unmarshal([]byte(content), &snap); err != nil {
		s.logger.WithError(err).Warn("Remote snapshot is not valid JSON, treating as absent")
		return nil, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"items":   len(snap.Items),
		"sync_id": snap.Metadata.SyncID,
		"device":  snap.DeviceID,
	}).Debug("Read remote snapshot")

	return &snap, nil
}

// EnsureDir creates the sync directory idempotently.
func (s *SnapshotStore) EnsureDir(ctx context.Context) error {
	if err := s.store.Mkdir(ctx, s.dir); err != nil {
		return fmt.Errorf("ensure remote directory %s: %w", s.dir, err)
	}
	return nil
}

// Write serializes the snapshot to pretty JSON and replaces the remote
// document. There is no partial write and no concurrency token; two
// devices writing at once resolve last-writer-wins at the document level.
func (s *SnapshotStore) Write(ctx context.Context, snap *models.SyncSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.store.WriteText(ctx, s.path, string(data)); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"items":   len(snap.Items),
		"sync_id": snap.Metadata.SyncID,
		"bytes":   len(data),
	}).Info("Wrote remote snapshot")

	return nil
}
