// Package postgres provides a PostgreSQL-backed flow store over pgx.
// Flows are stored as JSONB rows; the pool is injectable for testing.
package postgres
