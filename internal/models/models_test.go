package models_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkit/promptsync/internal/models"
)

func TestContentIdentity(t *testing.T) {
	tests := []struct {
		name    string
		content map[string]any
		want    string
		ok      bool
	}{
		{"uuid preferred", map[string]any{"uuid": "u1", "id": "i1"}, "u1", true},
		{"id fallback", map[string]any{"id": "i1"}, "i1", true},
		{"numeric id ignored", map[string]any{"id": 42.0}, "", false},
		{"empty uuid falls through", map[string]any{"uuid": "", "id": "i1"}, "i1", true},
		{"no identity", map[string]any{"title": "x"}, "", false},
		{"nil content", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := models.SyncItem{Content: tt.content}
			got, ok := item.ContentIdentity()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnapshotItemMap(t *testing.T) {
	snap := &models.SyncSnapshot{
		Items: []models.SyncItem{
			{ID: "a"},
			{ID: "b"},
		},
	}

	m := snap.ItemMap()
	require.Len(t, m, 2)
	assert.Equal(t, "a", m["a"].ID)

	var nilSnap *models.SyncSnapshot
	assert.Zero(t, nilSnap.ItemCount())
}

func TestSyncResultFail(t *testing.T) {
	result := models.NewSyncResult().Fail(errors.New("boom"))

	assert.False(t, result.Success)
	assert.Equal(t, "boom", result.Message)
	assert.Equal(t, []string{"boom"}, result.Errors)
	assert.False(t, result.HasChanges())
}

func TestRemoteErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := &models.RemoteError{Op: "read", Path: "/promptsync/snapshot.json", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "remote read /promptsync/snapshot.json")
}

func TestSyncErrorUnwrap(t *testing.T) {
	cause := &models.RemoteError{Op: "write", Path: "/p", Err: errors.New("507")}
	err := &models.SyncError{Code: models.ErrCodeRemote, Phase: "upload", Err: cause}

	var remoteErr *models.RemoteError
	assert.ErrorAs(t, err, &remoteErr)
	assert.Contains(t, err.Error(), "upload")

	withItem := &models.SyncError{Code: models.ErrCodeLocal, Phase: "download", ItemID: "p1", Err: errors.New("x")}
	assert.Contains(t, withItem.Error(), "item p1")
}
