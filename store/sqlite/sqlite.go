package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/store"
)

// SqliteFlowStore implements store.FlowStore using SQLite
type SqliteFlowStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "flows"
}

// NewSqliteFlowStore creates a new SQLite flow store
func NewSqliteFlowStore(opts SqliteOptions) (*SqliteFlowStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "flows"
	}

	s := &SqliteFlowStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteFlowStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			flow TEXT NOT NULL,
			built INTEGER NOT NULL,
			saved_at DATETIME NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteFlowStore) Close() error {
	return s.db.Close()
}

// Save stores or replaces the record for a flow ID
func (s *SqliteFlowStore) Save(ctx context.Context, id string, record *store.Record) error {
	flowJSON, err := json.Marshal(record.Flow)
	if err != nil {
		return fmt.Errorf("failed to marshal flow: %w", err)
	}

	name := ""
	if record.Flow != nil {
		name = record.Flow.Name
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, flow, built, saved_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			flow = excluded.flow,
			built = excluded.built,
			saved_at = excluded.saved_at
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, id, name, string(flowJSON), record.Built)
	if err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}

// Load retrieves a record by flow ID
func (s *SqliteFlowStore) Load(ctx context.Context, id string) (*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT flow, built, saved_at
		FROM %s
		WHERE id = ?
	`, s.tableName)

	var record store.Record
	var flowJSON string

	err := s.db.QueryRowContext(ctx, query, id).Scan(&flowJSON, &record.Built, &record.SavedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}

	var doc flow.Document
	if err := json.Unmarshal([]byte(flowJSON), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow: %w", err)
	}
	record.Flow = &doc

	return &record, nil
}

// List returns the stored flow IDs
func (s *SqliteFlowStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		ORDER BY saved_at DESC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan flow row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flow rows: %w", err)
	}
	return ids, nil
}

// Delete removes a stored flow
func (s *SqliteFlowStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	return nil
}
