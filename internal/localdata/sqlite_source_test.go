package localdata_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/localdata"
	"github.com/promptkit/promptsync/internal/snapshot"
)

func newSQLiteSource(t *testing.T) *localdata.SQLiteSource {
	t.Helper()

	var buf bytes.Buffer
	logger := events.NewTestLogger(events.ErrorLevel, "json", &buf)

	source, err := localdata.NewSQLiteSource(filepath.Join(t.TempDir(), "promptsync.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = source.Close() })

	return source
}

func TestGenerateExportEmptyDatabase(t *testing.T) {
	source := newSQLiteSource(t)

	data, err := source.GenerateExport(context.Background())
	require.NoError(t, err)

	assert.Empty(t, data.Categories)
	assert.Empty(t, data.Prompts)
	assert.Empty(t, data.AIConfigs)
	assert.Nil(t, data.Settings)
}

func TestApplyImportRoundTrip(t *testing.T) {
	source := newSQLiteSource(t)
	ctx := context.Background()

	imported := &snapshot.ExportData{
		Categories: []map[string]any{
			{"uuid": "cat-1", "name": "Writing"},
		},
		Prompts: []map[string]any{
			{"uuid": "p1", "title": "Greeting", "content": "Hello"},
			{"uuid": "p2", "title": "Farewell", "content": "Bye"},
		},
		AIConfigs: []map[string]any{
			{"uuid": "ai-1", "name": "Default model"},
		},
		Settings: map[string]any{"theme": "dark"},
	}

	require.NoError(t, source.ApplyImport(ctx, imported))

	data, err := source.GenerateExport(ctx)
	require.NoError(t, err)

	require.Len(t, data.Categories, 1)
	require.Len(t, data.Prompts, 2)
	require.Len(t, data.AIConfigs, 1)
	assert.Equal(t, "Writing", data.Categories[0]["name"])
	assert.Equal(t, "dark", data.Settings["theme"])
}

func TestApplyImportStampsSyncTime(t *testing.T) {
	source := newSQLiteSource(t)
	ctx := context.Background()
	before := time.Now().UTC()

	require.NoError(t, source.ApplyImport(ctx, &snapshot.ExportData{
		Prompts: []map[string]any{
			{"uuid": "p1", "title": "Greeting"},
		},
		Settings: map[string]any{"theme": "dark"},
	}))

	data, err := source.GenerateExport(ctx)
	require.NoError(t, err)
	require.Len(t, data.Prompts, 1)

	stamp, ok := data.Prompts[0]["syncTime"].(string)
	require.True(t, ok)
	syncTime, err := time.Parse(time.RFC3339Nano, stamp)
	require.NoError(t, err)
	assert.False(t, syncTime.Before(before.Truncate(time.Second)))

	_, ok = data.Settings["syncTime"].(string)
	assert.True(t, ok)
}

func TestApplyImportUpserts(t *testing.T) {
	source := newSQLiteSource(t)
	ctx := context.Background()

	require.NoError(t, source.ApplyImport(ctx, &snapshot.ExportData{
		Prompts: []map[string]any{
			{"uuid": "p1", "title": "First version"},
		},
	}))
	require.NoError(t, source.ApplyImport(ctx, &snapshot.ExportData{
		Prompts: []map[string]any{
			{"uuid": "p1", "title": "Second version"},
		},
	}))

	data, err := source.GenerateExport(ctx)
	require.NoError(t, err)

	require.Len(t, data.Prompts, 1)
	assert.Equal(t, "Second version", data.Prompts[0]["title"])
}

func TestApplyImportSkipsRecordsWithoutIdentity(t *testing.T) {
	source := newSQLiteSource(t)
	ctx := context.Background()

	require.NoError(t, source.ApplyImport(ctx, &snapshot.ExportData{
		Prompts: []map[string]any{
			{"title": "no identity"},
			{"uuid": "p1", "title": "kept"},
		},
	}))

	data, err := source.GenerateExport(ctx)
	require.NoError(t, err)

	require.Len(t, data.Prompts, 1)
	assert.Equal(t, "kept", data.Prompts[0]["title"])
}

func TestSourcePersistsAcrossReopen(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.ErrorLevel, "json", &buf)
	dbPath := filepath.Join(t.TempDir(), "promptsync.db")
	ctx := context.Background()

	source, err := localdata.NewSQLiteSource(dbPath, logger)
	require.NoError(t, err)
	require.NoError(t, source.ApplyImport(ctx, &snapshot.ExportData{
		Categories: []map[string]any{
			{"uuid": "cat-1", "name": "Writing"},
		},
	}))
	require.NoError(t, source.Close())

	reopened, err := localdata.NewSQLiteSource(dbPath, logger)
	require.NoError(t, err)
	defer reopened.Close()

	data, err := reopened.GenerateExport(ctx)
	require.NoError(t, err)
	require.Len(t, data.Categories, 1)
	assert.Equal(t, "Writing", data.Categories[0]["name"])
}
