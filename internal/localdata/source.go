// Package localdata defines the local data source the sync engine pulls
// exports from and applies downloaded batches to, plus a SQLite-backed
// implementation. The engine never learns how the data is persisted.
package localdata

import (
	"context"

	"github.com/promptkit/promptsync/internal/snapshot"
)

// Source is the data-management collaborator contract.
type Source interface {
	// GenerateExport produces the full exportable dataset.
	GenerateExport(ctx context.Context) (*snapshot.ExportData, error)

	// ApplyImport commits a downloaded batch. Records are upserted by
	// their own identity; the settings blob is replaced wholesale.
	ApplyImport(ctx context.Context, data *snapshot.ExportData) error
}
