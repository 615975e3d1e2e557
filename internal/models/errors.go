package models

import (
	"errors"
	"fmt"
)

// Error codes for structured error handling.
const (
	ErrCodeRemote   = "REMOTE_ERROR"
	ErrCodeSnapshot = "SNAPSHOT_ERROR"
	ErrCodeLocal    = "LOCAL_DATA_ERROR"
	ErrCodeConfig   = "CONFIG_ERROR"
)

// Sentinel errors
var (
	ErrSyncInProgress    = errors.New("sync already in progress")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrNoLocalData       = errors.New("local export produced no data")
	ErrSnapshotCorrupt   = errors.New("remote snapshot is corrupt")
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// RemoteError represents a failed remote store operation. Read failures
// are recoverable (treated as "no usable remote state"); write failures
// fail the whole sync because a computed state was lost.
type RemoteError struct {
	Op   string
	Path string
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// SyncError provides detailed sync failure information.
type SyncError struct {
	Code   string
	Phase  string
	ItemID string
	Err    error
}

func (e *SyncError) Error() string {
	if e.ItemID != "" {
		return fmt.Sprintf("sync %s [%s]: item %s: %v", e.Phase, e.Code, e.ItemID, e.Err)
	}
	return fmt.Sprintf("sync %s [%s]: %v", e.Phase, e.Code, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
