package models

import "time"

// SnapshotFormatVersion is the wire format tag written into every
// snapshot document. Readers use it as the compatibility signal.
const SnapshotFormatVersion = "2.0.0"

// SyncSnapshot is a whole-dataset export, built fresh on every sync on
// the local side and read back from the remote store on the other.
// Snapshots are never mutated in place; reconciliation writes a new
// document that replaces the old one wholesale.
type SyncSnapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	DeviceID  string           `json:"deviceId"`
	Items     []SyncItem       `json:"items"`
	Metadata  SnapshotMetadata `json:"metadata"`
}

// SnapshotMetadata describes a snapshot as a whole.
type SnapshotMetadata struct {
	TotalItems        int                  `json:"totalItems"`
	Checksum          string               `json:"checksum"`
	SyncID            string               `json:"syncId"`
	PreviousSyncID    string               `json:"previousSyncId,omitempty"`
	ConflictsResolved []ConflictResolution `json:"conflictsResolved,omitempty"`
	DeviceInfo        DeviceInfo           `json:"deviceInfo"`
}

// DeviceInfo is descriptive only; nothing in the engine branches on it.
type DeviceInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	AppVersion string `json:"appVersion"`
}

// ItemMap returns the snapshot's items keyed by id. Item order inside a
// snapshot is irrelevant; all comparisons go through this map.
func (s *SyncSnapshot) ItemMap() map[string]SyncItem {
	m := make(map[string]SyncItem, len(s.Items))
	for _, item := range s.Items {
		m[item.ID] = item
	}
	return m
}

// ItemCount returns the number of items, tolerating a nil snapshot.
func (s *SyncSnapshot) ItemCount() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}
