package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jsaveker/fork-it-app/logging"
	"github.com/jsaveker/fork-it-app/session"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionStorage(t *testing.T) (*KVSessionStorage, *MemoryKeyValueStore) {
	t.Helper()
	logging.Log = logrus.New()

	kv := NewMemoryKeyValueStore()
	return &KVSessionStorage{Store: kv, TTL: time.Hour, Timeout: time.Second}, kv
}

func TestSessionStorageCreateAndGet(t *testing.T) {
	storage, _ := setupSessionStorage(t)
	ctx := context.Background()

	created, err := storage.Create(ctx, "Lunch")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := storage.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Lunch", fetched.Name)
	assert.NotNil(t, fetched.Restaurants)
	assert.NotNil(t, fetched.Votes)
}

func TestSessionStorageGetUnknown(t *testing.T) {
	storage, _ := setupSessionStorage(t)

	_, err := storage.Get(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStorageSave(t *testing.T) {
	storage, _ := setupSessionStorage(t)
	ctx := context.Background()

	created, err := storage.Create(ctx, "Lunch")
	require.NoError(t, err)

	t.Run("preserves the caller's id", func(t *testing.T) {
		created.Name = "Dinner"
		saved, err := storage.Save(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, created.ID, saved.ID)

		fetched, err := storage.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, fetched.ID)
		assert.Equal(t, "Dinner", fetched.Name)
	})

	t.Run("refreshes the expiry", func(t *testing.T) {
		before := created.Expires
		time.Sleep(5 * time.Millisecond)
		saved, err := storage.Save(ctx, created)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, saved.Expires, before)
	})
}

func TestSessionStorageCorruptRecord(t *testing.T) {
	storage, kv := setupSessionStorage(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, SessionPrefix+"broken", []byte("{not json"), time.Hour))

	_, err := storage.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStorageExpiredRecord(t *testing.T) {
	storage, kv := setupSessionStorage(t)
	ctx := context.Background()

	// The record is still physically present but its own expiry passed,
	// as happens while a lazily-sweeping backend catches up.
	stale := session.New("stale", time.Hour)
	stale.Expires = time.Now().UTC().Add(-time.Minute).UnixMilli()
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, SessionPrefix+stale.ID, data, time.Hour))

	_, err = storage.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSessionStorageDeleteIdempotent(t *testing.T) {
	storage, _ := setupSessionStorage(t)
	ctx := context.Background()

	created, err := storage.Create(ctx, "Lunch")
	require.NoError(t, err)

	require.NoError(t, storage.Delete(ctx, created.ID))
	_, err = storage.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again must not fail.
	assert.NoError(t, storage.Delete(ctx, created.ID))
}

func TestSessionStorageGetAll(t *testing.T) {
	storage, kv := setupSessionStorage(t)
	ctx := context.Background()

	first, err := storage.Create(ctx, "first")
	require.NoError(t, err)
	second, err := storage.Create(ctx, "second")
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, SessionPrefix+"junk", []byte("junk"), time.Hour))

	all, err := storage.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := []string{all[0].ID, all[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

// stalledKeyValueStore blocks every call until the context is cancelled,
// standing in for a backend that stopped answering.
type stalledKeyValueStore struct{}

func (stalledKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
}

func (stalledKeyValueStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	<-ctx.Done()
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
}

func (stalledKeyValueStore) Delete(ctx context.Context, key string) error {
	<-ctx.Done()
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
}

func (stalledKeyValueStore) List(ctx context.Context, prefix string) ([][]byte, error) {
	<-ctx.Done()
	return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, ctx.Err())
}

func TestSessionStorageBoundsStalledCalls(t *testing.T) {
	logging.Log = logrus.New()
	storage := &KVSessionStorage{Store: stalledKeyValueStore{}, TTL: time.Hour, Timeout: 50 * time.Millisecond}
	ctx := context.Background()

	t.Run("Get returns once the call timeout fires", func(t *testing.T) {
		start := time.Now()
		_, err := storage.Get(ctx, "some-id")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("Save returns once the call timeout fires", func(t *testing.T) {
		start := time.Now()
		_, err := storage.Save(ctx, session.New("Lunch", time.Hour))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrStoreUnavailable)
		assert.Less(t, time.Since(start), time.Second)
	})
}
