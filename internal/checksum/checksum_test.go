package checksum_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptkit/promptsync/internal/checksum"
	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/models"
)

func testLogger() *events.Logger {
	var buf bytes.Buffer
	return events.NewTestLogger(events.ErrorLevel, "json", &buf)
}

func TestItemChecksumDeterministic(t *testing.T) {
	content := map[string]any{
		"uuid":    "a1",
		"title":   "Greeting prompt",
		"content": "Hello, {{name}}",
		"tags":    []any{"greeting", "demo"},
	}

	first, err := checksum.ItemChecksum(content)
	require.NoError(t, err)
	second, err := checksum.ItemChecksum(content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestItemChecksumIgnoresVolatileFields(t *testing.T) {
	base := map[string]any{
		"uuid":  "a1",
		"title": "Greeting prompt",
	}
	baseSum, err := checksum.ItemChecksum(base)
	require.NoError(t, err)

	withVolatile := map[string]any{
		"uuid":      "a1",
		"title":     "Greeting prompt",
		"id":        "row-42",
		"createdAt": "2024-01-01T00:00:00Z",
		"updatedAt": "2024-06-01T12:00:00Z",
		"syncTime":  "2024-06-02T08:00:00Z",
	}
	volatileSum, err := checksum.ItemChecksum(withVolatile)
	require.NoError(t, err)

	assert.Equal(t, baseSum, volatileSum)
}

func TestItemChecksumStripsNestedVolatileFields(t *testing.T) {
	a := map[string]any{
		"uuid": "a1",
		"nested": map[string]any{
			"value":     "x",
			"updatedAt": "2024-01-01T00:00:00Z",
		},
		"list": []any{
			map[string]any{"value": "y", "id": 7.0},
		},
	}
	b := map[string]any{
		"uuid": "a1",
		"nested": map[string]any{
			"value":     "x",
			"updatedAt": "2030-12-31T00:00:00Z",
		},
		"list": []any{
			map[string]any{"value": "y", "id": 8.0},
		},
	}

	sumA, err := checksum.ItemChecksum(a)
	require.NoError(t, err)
	sumB, err := checksum.ItemChecksum(b)
	require.NoError(t, err)

	assert.Equal(t, sumA, sumB)
}

func TestItemChecksumDetectsRealChanges(t *testing.T) {
	sumA, err := checksum.ItemChecksum(map[string]any{"uuid": "a1", "title": "one"})
	require.NoError(t, err)
	sumB, err := checksum.ItemChecksum(map[string]any{"uuid": "a1", "title": "two"})
	require.NoError(t, err)

	assert.NotEqual(t, sumA, sumB)
}

func makeItem(t *testing.T, identity, body string) models.SyncItem {
	t.Helper()

	content := map[string]any{"uuid": identity, "body": body}
	sum, err := checksum.ItemChecksum(content)
	require.NoError(t, err)

	return models.SyncItem{
		ID:       identity,
		Type:     models.ItemTypePrompt,
		Content:  content,
		Metadata: models.SyncItemMetadata{Checksum: sum},
	}
}

func TestAggregateChecksumOrderIndependent(t *testing.T) {
	items := []models.SyncItem{
		makeItem(t, "c", "gamma"),
		makeItem(t, "a", "alpha"),
		makeItem(t, "b", "beta"),
		makeItem(t, "d", "delta"),
	}

	logger := testLogger()
	want := checksum.AggregateChecksum(items, logger)

	for i := 0; i < 10; i++ {
		shuffled := make([]models.SyncItem, len(items))
		copy(shuffled, items)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, checksum.AggregateChecksum(shuffled, logger))
	}
}

func TestAggregateChecksumSkipsItemsWithoutIdentity(t *testing.T) {
	logger := testLogger()

	valid := makeItem(t, "a", "alpha")
	noIdentity := models.SyncItem{
		ID:      "orphan",
		Type:    models.ItemTypePrompt,
		Content: map[string]any{"body": "no identity fields"},
	}

	withOrphan := checksum.AggregateChecksum([]models.SyncItem{valid, noIdentity}, logger)
	withoutOrphan := checksum.AggregateChecksum([]models.SyncItem{valid}, logger)

	assert.Equal(t, withoutOrphan, withOrphan)
}

func TestAggregateChecksumEmpty(t *testing.T) {
	logger := testLogger()

	empty := checksum.AggregateChecksum(nil, logger)
	assert.NotEmpty(t, empty)

	// All-invalid input collapses to the same sentinel value
	invalid := []models.SyncItem{
		{ID: "x", Content: map[string]any{"body": "no identity"}},
	}
	assert.Equal(t, empty, checksum.AggregateChecksum(invalid, logger))

	// And it differs from a real aggregate
	assert.NotEqual(t, empty, checksum.AggregateChecksum([]models.SyncItem{makeItem(t, "a", "alpha")}, logger))
}

func TestNormalizePassesThroughPrimitives(t *testing.T) {
	assert.Equal(t, "text", checksum.Normalize("text"))
	assert.Equal(t, 3.5, checksum.Normalize(3.5))
	assert.Equal(t, true, checksum.Normalize(true))
	assert.Nil(t, checksum.Normalize(nil))
}
