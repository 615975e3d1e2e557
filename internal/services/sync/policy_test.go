package sync_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptkit/promptsync/internal/models"
	syncsvc "github.com/promptkit/promptsync/internal/services/sync"
)

func TestRemoteWinsPolicy(t *testing.T) {
	local := models.SyncItem{ID: "p1", Content: map[string]any{"title": "local"}}
	remote := models.SyncItem{ID: "p1", Content: map[string]any{"title": "remote"}}

	res := syncsvc.RemoteWinsPolicy(local, remote)

	assert.Equal(t, "p1", res.ItemID)
	assert.Equal(t, models.ResolutionRemoteWins, res.Strategy)
	assert.False(t, res.Timestamp.IsZero())
	assert.NotEmpty(t, res.Reason)
}

func TestLocalWinsPolicy(t *testing.T) {
	local := models.SyncItem{ID: "p1"}
	remote := models.SyncItem{ID: "p1"}

	res := syncsvc.LocalWinsPolicy(local, remote)

	assert.Equal(t, models.ResolutionLocalWins, res.Strategy)
}
