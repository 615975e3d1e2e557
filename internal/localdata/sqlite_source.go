package localdata

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/promptkit/promptsync/internal/events"
	"github.com/promptkit/promptsync/internal/snapshot"
)

// Record kinds stored in the records table.
const (
	kindCategory = "category"
	kindPrompt   = "prompt"
	kindAIConfig = "aiConfig"
)

// SQLiteSource persists categories, prompts, AI configs and the settings
// blob in a local SQLite database. Payloads are stored as JSON documents
// keyed by the record's own uuid, which keeps the payload shape opaque
// the same way the sync engine treats it.
type SQLiteSource struct {
	db     *sql.DB
	logger *events.Logger

	mu sync.Mutex
}

// NewSQLiteSource opens (and initializes) the database at dbPath.
func NewSQLiteSource(dbPath string, logger *events.Logger) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	source := &SQLiteSource{
		db:     db,
		logger: logger.WithField("component", "sqlite_source"),
	}

	if err := source.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	return source, nil
}

// initialize creates tables and indexes.
func (s *SQLiteSource) initialize() error {
	schema := `
    CREATE TABLE IF NOT EXISTS records (
        kind TEXT NOT NULL,
        uuid TEXT NOT NULL,
        payload TEXT NOT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (kind, uuid)
    );

    CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);

    CREATE TABLE IF NOT EXISTS settings (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        payload TEXT NOT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// GenerateExport reads the full dataset into export shape.
func (s *SQLiteSource) GenerateExport(ctx context.Context) (*snapshot.ExportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := &snapshot.ExportData{
		Categories: make([]map[string]any, 0),
		Prompts:    make([]map[string]any, 0),
		AIConfigs:  make([]map[string]any, 0),
	}

	for _, kind := range []string{kindCategory, kindPrompt, kindAIConfig} {
		records, err := s.loadKind(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s records: %w", kind, err)
		}
		switch kind {
		case kindCategory:
			data.Categories = records
		case kindPrompt:
			data.Prompts = records
		case kindAIConfig:
			data.AIConfigs = records
		}
	}

	settings, err := s.loadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	data.Settings = settings

	s.logger.WithFields(map[string]interface{}{
		"categories": len(data.Categories),
		"prompts":    len(data.Prompts),
		"ai_configs": len(data.AIConfigs),
	}).Debug("Generated export data")

	return data, nil
}

// ApplyImport upserts a downloaded batch in one transaction.
func (s *SQLiteSource) ApplyImport(ctx context.Context, data *snapshot.ExportData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Applied records were just reconciled; stamping syncTime here makes
	// it the conflict baseline the next snapshot build reads back.
	syncTime := time.Now().UTC().Format(time.RFC3339Nano)

	groups := []struct {
		kind    string
		records []map[string]any
	}{
		{kindCategory, data.Categories},
		{kindPrompt, data.Prompts},
		{kindAIConfig, data.AIConfigs},
	}

	applied := 0
	for _, g := range groups {
		for _, record := range g.records {
			record["syncTime"] = syncTime
			if err := s.upsertRecord(ctx, tx, g.kind, record); err != nil {
				return err
			}
			applied++
		}
	}

	if data.Settings != nil {
		data.Settings["syncTime"] = syncTime
		payload, err := json.Marshal(data.Settings)
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
            INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
            ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
        `, string(payload))
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	s.logger.WithField("records", applied).Info("Applied imported data")

	return nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) loadKind(ctx context.Context, kind string) ([]map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM records WHERE kind = ? ORDER BY uuid`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]map[string]any, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}

		var record map[string]any
		if err := json.Unmarshal([]byte(payload), &record); err != nil {
			s.logger.WithError(err).WithField("kind", kind).Warn("Skipping unreadable record payload")
			continue
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *SQLiteSource) loadSettings(ctx context.Context) (map[string]any, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var settings map[string]any
	if err := json.Unmarshal([]byte(payload), &settings); err != nil {
		return nil, fmt.Errorf("parse settings payload: %w", err)
	}
	return settings, nil
}

func (s *SQLiteSource) upsertRecord(ctx context.Context, tx *sql.Tx, kind string, record map[string]any) error {
	identity, ok := record["uuid"].(string)
	if !ok || identity == "" {
		if v, isStr := record["id"].(string); isStr && v != "" {
			identity = v
		} else {
			s.logger.WithField("kind", kind).Warn("Skipping record without identity")
			return nil
		}
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record %s: %w", kind, identity, err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT INTO records (kind, uuid, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(kind, uuid) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
    `, kind, identity, string(payload))
	if err != nil {
		return fmt.Errorf("upsert %s record %s: %w", kind, identity, err)
	}

	return nil
}
