// Package snapshot converts the application's exported data into
// checksummed sync items and back.
package snapshot

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/promptkit/promptsync/internal/checksum"
	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/models"
)

// ExportData is the exchange shape produced by the local data source and
// consumed by it on import. Record payloads stay opaque maps; the engine
// never interprets them beyond identity, checksum and timestamps.
type ExportData struct {
	Categories []map[string]any `json:"categories,omitempty"`
	Prompts    []map[string]any `json:"prompts,omitempty"`
	AIConfigs  []map[string]any `json:"aiConfigs,omitempty"`
	Settings   map[string]any   `json:"settings,omitempty"`
}

// Builder turns export data into snapshots for one device.
type Builder struct {
	device models.DeviceInfo
	logger *events.Logger
}

// NewBuilder creates a snapshot builder.
func NewBuilder(device models.DeviceInfo, logger *events.Logger) *Builder {
	return &Builder{
		device: device,
		logger: logger.WithField("component", "snapshot_builder"),
	}
}

// Build converts export data into a fresh snapshot. Malformed records and
// missing arrays produce warnings, never a failed build; a partial export
// must not abort an entire sync.
func (b *Builder) Build(data *ExportData) (*models.SyncSnapshot, error) {
	now := time.Now().UTC()
	var items []models.SyncItem

	groups := []struct {
		itemType models.ItemType
		records  []map[string]any
	}{
		{models.ItemTypeCategory, data.Categories},
		{models.ItemTypePrompt, data.Prompts},
		{models.ItemTypeAIConfig, data.AIConfigs},
	}

	for _, g := range groups {
		if g.records == nil {
			b.logger.WithField("type", g.itemType).Warn("Export is missing record array")
			continue
		}
		for _, record := range g.records {
			item, err := b.buildItem(record, g.itemType, now)
			if err != nil {
				b.logger.WithError(err).WithField("type", g.itemType).Warn("Skipping malformed record")
				continue
			}
			items = append(items, *item)
		}
	}

	if data.Settings != nil {
		item, err := b.buildSettingsItem(data.Settings, now)
		if err != nil {
			b.logger.WithError(err).Warn("Skipping malformed settings record")
		} else {
			items = append(items, *item)
		}
	}

	snap := &models.SyncSnapshot{
		Timestamp: now,
		Version:   models.SnapshotFormatVersion,
		DeviceID:  b.device.ID,
		Items:     items,
		Metadata: models.SnapshotMetadata{
			TotalItems: len(items),
			Checksum:   checksum.AggregateChecksum(items, b.logger),
			SyncID:     uuid.NewString(),
			DeviceInfo: b.device,
		},
	}

	b.logger.WithFields(map[string]interface{}{
		"items":   len(items),
		"sync_id": snap.Metadata.SyncID,
	}).Debug("Built local snapshot")

	return snap, nil
}

// buildItem converts one record into a sync item.
func (b *Builder) buildItem(record map[string]any, itemType models.ItemType, now time.Time) (*models.SyncItem, error) {
	if record == nil {
		return nil, fmt.Errorf("nil record")
	}

	sum, err := checksum.ItemChecksum(record)
	if err != nil {
		return nil, fmt.Errorf("checksum record: %w", err)
	}

	return &models.SyncItem{
		ID:      resolveIdentity(record),
		Type:    itemType,
		Title:   displayTitle(record, itemType),
		Content: record,
		Metadata: models.SyncItemMetadata{
			CreatedAt:      recordTime(record, "createdAt", now),
			UpdatedAt:      recordTime(record, "updatedAt", now),
			Version:        1,
			DeviceID:       b.device.ID,
			LastModifiedBy: b.device.ID,
			Checksum:       sum,
			// The record's own syncTime, when present, is the conflict
			// baseline. No default: zero means never reconciled.
			SyncTime: recordTime(record, "syncTime", time.Time{}),
		},
	}, nil
}

// buildSettingsItem wraps the single settings blob. Its identity is fixed
// so every device's settings land on the same sync item.
func (b *Builder) buildSettingsItem(settings map[string]any, now time.Time) (*models.SyncItem, error) {
	sum, err := checksum.ItemChecksum(settings)
	if err != nil {
		return nil, fmt.Errorf("checksum settings: %w", err)
	}

	return &models.SyncItem{
		ID:      models.SettingsItemID,
		Type:    models.ItemTypeSetting,
		Title:   "Settings",
		Content: settings,
		Metadata: models.SyncItemMetadata{
			CreatedAt:      recordTime(settings, "createdAt", now),
			UpdatedAt:      recordTime(settings, "updatedAt", now),
			Version:        1,
			DeviceID:       b.device.ID,
			LastModifiedBy: b.device.ID,
			Checksum:       sum,
			SyncTime:       recordTime(settings, "syncTime", time.Time{}),
		},
	}, nil
}

// resolveIdentity applies the identity chain: the record's own uuid, then
// its id coerced to string, then a fresh UUID. After this point every
// item carries a canonical id and the engine never falls back again.
func resolveIdentity(record map[string]any) string {
	if v, ok := record["uuid"].(string); ok && v != "" {
		return v
	}
	switch v := record["id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return uuid.NewString()
}

// displayTitle derives a diagnostics label from the type-specific display
// field. It plays no part in comparison logic.
func displayTitle(record map[string]any, itemType models.ItemType) string {
	key := "name"
	if itemType == models.ItemTypePrompt {
		key = "title"
	}
	if v, ok := record[key].(string); ok && v != "" {
		return v
	}
	return "Untitled"
}

// recordTime reads an ISO-8601 timestamp field, defaulting to now.
func recordTime(record map[string]any, key string, now time.Time) time.Time {
	v, ok := record[key].(string)
	if !ok || v == "" {
		return now
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return now
}
