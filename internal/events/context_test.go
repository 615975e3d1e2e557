package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptkit/promptsync/internal/events"
)

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	// Should return default logger when none in context
	logger := events.FromContext(ctx)
	assert.NotNil(t, logger)
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := &events.Logger{}

	ctx = events.WithLogger(ctx, logger)
	retrieved := events.FromContext(ctx)

	assert.Equal(t, logger, retrieved)
}

func TestWithSyncID(t *testing.T) {
	ctx := context.Background()
	syncID := "sync-123"

	ctx = events.WithSyncID(ctx, syncID)
	retrieved := events.GetSyncID(ctx)

	assert.Equal(t, syncID, retrieved)

	// Should also add to logger fields
	logger := events.FromContext(ctx)
	assert.NotNil(t, logger)
}

func TestWithDeviceID(t *testing.T) {
	ctx := context.Background()
	deviceID := "device-456"

	ctx = events.WithDeviceID(ctx, deviceID)
	retrieved := events.GetDeviceID(ctx)

	assert.Equal(t, deviceID, retrieved)

	// Should also add to logger fields
	logger := events.FromContext(ctx)
	assert.NotNil(t, logger)
}

func TestGetSyncIDEmpty(t *testing.T) {
	ctx := context.Background()
	id := events.GetSyncID(ctx)
	assert.Empty(t, id)
}

func TestGetDeviceIDEmpty(t *testing.T) {
	ctx := context.Background()
	id := events.GetDeviceID(ctx)
	assert.Empty(t, id)
}

func TestSetDefault(t *testing.T) {
	customLogger := &events.Logger{}
	events.SetDefault(customLogger)

	ctx := context.Background()
	retrieved := events.FromContext(ctx)

	assert.Equal(t, customLogger, retrieved)
}
