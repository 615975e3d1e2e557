package localdata

import (
	"context"
	"sync"

	"github.com/promptkit/promptsync/internal/snapshot"
)

// MockSource provides an in-memory Source for testing.
type MockSource struct {
	mu sync.Mutex

	export    *snapshot.ExportData
	exportErr error

	applied  []*snapshot.ExportData
	applyErr error
}

// NewMockSource creates a mock local data source.
func NewMockSource() *MockSource {
	return &MockSource{
		export: &snapshot.ExportData{
			Categories: make([]map[string]any, 0),
			Prompts:    make([]map[string]any, 0),
			AIConfigs:  make([]map[string]any, 0),
		},
	}
}

// SetExport seeds the data returned by GenerateExport.
func (m *MockSource) SetExport(data *snapshot.ExportData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.export = data
}

// SetExportError makes GenerateExport fail.
func (m *MockSource) SetExportError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportErr = err
}

// SetApplyError makes ApplyImport fail.
func (m *MockSource) SetApplyError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyErr = err
}

// Applied returns every batch handed to ApplyImport, oldest first.
func (m *MockSource) Applied() []*snapshot.ExportData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*snapshot.ExportData, len(m.applied))
	copy(out, m.applied)
	return out
}

// GenerateExport returns the seeded data.
func (m *MockSource) GenerateExport(_ context.Context) (*snapshot.ExportData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return m.export, nil
}

// ApplyImport records the batch.
func (m *MockSource) ApplyImport(_ context.Context, data *snapshot.ExportData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied = append(m.applied, data)
	return nil
}
