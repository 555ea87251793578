// Package store defines flow persistence. A FlowStore keeps flow
// documents and their build status between pipeline builds; the
// subpackages provide in-memory (LRU), SQLite, Redis, and PostgreSQL
// implementations.
package store
