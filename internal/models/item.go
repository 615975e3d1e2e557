package models

import "time"

// ItemType tags the payload kind carried by a sync item.
type ItemType string

const (
	ItemTypeCategory ItemType = "category"
	ItemTypePrompt   ItemType = "prompt"
	ItemTypeAIConfig ItemType = "aiConfig"
	ItemTypeSetting  ItemType = "setting"
)

// SettingsItemID is the fixed identity of the single settings item.
const SettingsItemID = "settings"

// SyncStatus is advisory item state, not authoritative.
type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusPending  SyncStatus = "pending"
	SyncStatusConflict SyncStatus = "conflict"
)

// SyncItem is a normalized, type-tagged unit of syncable data. The
// reconciliation engine only reads id, checksum and timestamps; Content
// stays opaque.
type SyncItem struct {
	ID       string           `json:"id"`
	Type     ItemType         `json:"type"`
	Title    string           `json:"title,omitempty"`
	Content  map[string]any   `json:"content"`
	Metadata SyncItemMetadata `json:"metadata"`
}

// SyncItemMetadata carries the bookkeeping the engine compares on.
type SyncItemMetadata struct {
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Version        int        `json:"version"`
	DeviceID       string     `json:"deviceId"`
	LastModifiedBy string     `json:"lastModifiedBy"`
	Checksum       string     `json:"checksum"`
	Deleted        bool       `json:"deleted,omitempty"`
	SyncStatus     SyncStatus `json:"syncStatus,omitempty"`

	// SyncTime records when this item was last reconciled. Zero means
	// never; the engine treats that as the epoch when computing the
	// conflict baseline.
	SyncTime time.Time `json:"syncTime,omitzero"`
}

// ContentIdentity returns the record's own identity field (uuid, then id)
// when it is a string. The aggregate checksum excludes items without one.
func (i *SyncItem) ContentIdentity() (string, bool) {
	if i.Content == nil {
		return "", false
	}
	if v, ok := i.Content["uuid"].(string); ok && v != "" {
		return v, true
	}
	if v, ok := i.Content["id"].(string); ok && v != "" {
		return v, true
	}
	return "", false
}
