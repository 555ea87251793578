package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/flow"
	"github.com/flowsmith/flowsmith/store"
)

func newTestStore(t *testing.T) *RedisFlowStore {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewRedisFlowStore(RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	doc := &flow.Document{ID: "f1", Name: "qa flow"}
	require.NoError(t, s.Save(ctx, "f1", &store.Record{Flow: doc, Built: true}))

	got, err := s.Load(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "qa flow", got.Flow.Name)
	assert.True(t, got.Built)
	assert.False(t, got.SavedAt.IsZero())
}

func TestRedisStoreLoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedisStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Save(ctx, "f1", &store.Record{Flow: &flow.Document{ID: "f1"}}))
	require.NoError(t, s.Save(ctx, "f2", &store.Record{Flow: &flow.Document{ID: "f2"}}))

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f1", "f2"}, ids)

	require.NoError(t, s.Delete(ctx, "f1"))

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"f2"}, ids)

	_, err = s.Load(ctx, "f1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
