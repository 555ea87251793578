// Package sqlite provides a SQLite-backed flow store. Flows are stored
// as JSON in a single table created on first use.
package sqlite
