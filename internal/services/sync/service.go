package sync

import (
	"context"

	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/localdata"
	"github.com/promptkit/promptsync/internal/models"
	"github.com/promptkit/promptsync/internal/remote"
	"github.com/promptkit/promptsync/internal/snapshot"
)

// Service provides high-level sync operations.
type Service struct {
	engine *Engine
	remote *remote.SnapshotStore
	logger *events.Logger
}

// NewService creates a sync service.
func NewService(
	local localdata.Source,
	remoteStore *remote.SnapshotStore,
	device models.DeviceInfo,
	policy ConflictPolicy,
	logger *events.Logger,
) *Service {
	builder := snapshot.NewBuilder(device, logger)
	engine := NewEngine(local, remoteStore, builder, device, policy, logger)

	return &Service{
		engine: engine,
		remote: remoteStore,
		logger: logger.WithField("service", "sync"),
	}
}

// Sync performs one full synchronization.
func (s *Service) Sync(ctx context.Context) *models.SyncResult {
	return s.engine.PerformSync(ctx)
}

// RemoteSnapshot fetches the current remote snapshot, nil when absent.
func (s *Service) RemoteSnapshot(ctx context.Context) (*models.SyncSnapshot, error) {
	return s.remote.Get(ctx)
}
