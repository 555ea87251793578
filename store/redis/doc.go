// Package redis provides a Redis-backed flow store. Records are stored
// as JSON values with an optional TTL, indexed by a set of flow IDs.
package redis
