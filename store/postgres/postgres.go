package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresFlowStore implements store.FlowStore using PostgreSQL
type PostgresFlowStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "flows"
}

// NewPostgresFlowStore creates a new Postgres flow store
func NewPostgresFlowStore(ctx context.Context, opts PostgresOptions) (*PostgresFlowStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "flows"
	}

	return &PostgresFlowStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// NewPostgresFlowStoreWithPool creates a new Postgres flow store with an existing pool
// Useful for testing with mocks
func NewPostgresFlowStoreWithPool(pool DBPool, tableName string) *PostgresFlowStore {
	if tableName == "" {
		tableName = "flows"
	}
	return &PostgresFlowStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresFlowStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			flow JSONB NOT NULL,
			built BOOLEAN NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL
		);
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresFlowStore) Close() {
	s.pool.Close()
}

// Save stores or replaces the record for a flow ID
func (s *PostgresFlowStore) Save(ctx context.Context, id string, record *store.Record) error {
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
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			flow = EXCLUDED.flow,
			built = EXCLUDED.built,
			saved_at = EXCLUDED.saved_at
	`, s.tableName)

	_, err = s.pool.Exec(ctx, query, id, name, flowJSON, record.Built, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save flow: %w", err)
	}
	return nil
}

// Load retrieves a record by flow ID
func (s *PostgresFlowStore) Load(ctx context.Context, id string) (*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT flow, built, saved_at
		FROM %s
		WHERE id = $1
	`, s.tableName)

	var record store.Record
	var flowJSON []byte

	err := s.pool.QueryRow(ctx, query, id).Scan(&flowJSON, &record.Built, &record.SavedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load flow: %w", err)
	}

	var doc flow.Document
	if err := json.Unmarshal(flowJSON, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow: %w", err)
	}
	record.Flow = &doc

	return &record, nil
}

// List returns the stored flow IDs
func (s *PostgresFlowStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		ORDER BY saved_at DESC
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
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
func (s *PostgresFlowStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	return nil
}
