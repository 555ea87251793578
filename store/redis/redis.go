package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowsmith/flowsmith/store"
)

// RedisFlowStore implements store.FlowStore using Redis
type RedisFlowStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "flowsmith:"
	TTL      time.Duration // Expiration for flows, default 0 (no expiration)
}

// NewRedisFlowStore creates a new Redis flow store
func NewRedisFlowStore(opts RedisOptions) *RedisFlowStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "flowsmith:"
	}

	return &RedisFlowStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *RedisFlowStore) flowKey(id string) string {
	return fmt.Sprintf("%sflow:%s", s.prefix, id)
}

func (s *RedisFlowStore) indexKey() string {
	return s.prefix + "flows"
}

// Save stores or replaces the record for a flow ID
func (s *RedisFlowStore) Save(ctx context.Context, id string, record *store.Record) error {
	stored := *record
	stored.SavedAt = time.Now()

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal flow record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.flowKey(id), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), id)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.indexKey(), s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save flow to redis: %w", err)
	}
	return nil
}

// Load retrieves a record by flow ID
func (s *RedisFlowStore) Load(ctx context.Context, id string) (*store.Record, error) {
	data, err := s.client.Get(ctx, s.flowKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load flow from redis: %w", err)
	}

	var record store.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow record: %w", err)
	}
	return &record, nil
}

// List returns the stored flow IDs
func (s *RedisFlowStore) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	return ids, nil
}

// Delete removes a stored flow
func (s *RedisFlowStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.flowKey(id))
	pipe.SRem(ctx, s.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete flow: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisFlowStore) Close() error {
	return s.client.Close()
}
