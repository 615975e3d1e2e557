package models

import "time"

// ResolutionStrategy names how a conflict was (or could be) resolved.
// Only RemoteWins is exercised by the shipped policy; the others are
// reserved for alternate policies.
type ResolutionStrategy string

const (
	ResolutionRemoteWins      ResolutionStrategy = "remote_wins"
	ResolutionLocalWins       ResolutionStrategy = "local_wins"
	ResolutionMerge           ResolutionStrategy = "merge"
	ResolutionCreateDuplicate ResolutionStrategy = "create_duplicate"
)

// ConflictResolution records how one item-level conflict was settled.
type ConflictResolution struct {
	ItemID    string             `json:"itemId"`
	Strategy  ResolutionStrategy `json:"strategy"`
	Timestamp time.Time          `json:"timestamp"`
	Reason    string             `json:"reason"`
}

// ConflictDetail pairs both sides of a conflict with its resolution so
// callers can render an audit view without re-deriving it from logs.
type ConflictDetail struct {
	ItemID     string             `json:"itemId"`
	LocalItem  SyncItem           `json:"localItem"`
	RemoteItem SyncItem           `json:"remoteItem"`
	Resolution ConflictResolution `json:"resolution"`
}

// PhaseResult reports one reconciliation phase.
type PhaseResult struct {
	Completed bool     `json:"completed"`
	Items     int      `json:"items"`
	Errors    []string `json:"errors,omitempty"`
}

// PhaseResults covers the three ordered phases.
type PhaseResults struct {
	Upload       PhaseResult `json:"upload"`
	DeleteRemote PhaseResult `json:"deleteRemote"`
	Download     PhaseResult `json:"download"`
}

// SyncResult is the single outcome object returned for every sync
// attempt, success or failure.
type SyncResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`

	ItemsProcessed    int `json:"itemsProcessed"`
	ItemsUpdated      int `json:"itemsUpdated"`
	ItemsCreated      int `json:"itemsCreated"`
	ItemsDeleted      int `json:"itemsDeleted"`
	ConflictsResolved int `json:"conflictsResolved"`

	ConflictDetails []ConflictDetail `json:"conflictDetails,omitempty"`
	Errors          []string         `json:"errors,omitempty"`
	Phases          PhaseResults     `json:"phases"`
}

// NewSyncResult creates an empty result stamped with the current time.
func NewSyncResult() *SyncResult {
	return &SyncResult{Timestamp: time.Now().UTC()}
}

// Fail marks the result failed with the given error.
func (r *SyncResult) Fail(err error) *SyncResult {
	r.Success = false
	r.Message = err.Error()
	r.Errors = append(r.Errors, err.Error())
	return r
}

// HasChanges reports whether the sync moved any data in either direction.
func (r *SyncResult) HasChanges() bool {
	return r.ItemsCreated > 0 || r.ItemsUpdated > 0 || r.ItemsDeleted > 0
}
