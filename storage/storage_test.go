package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func exerciseStore(t *testing.T, s BlobStore) {
	ctx := context.Background()
	key := Key("sess-1", CartBlob)

	_, err := s.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	var got snapshot
	found, err := LoadJSON(ctx, s, key, &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SaveJSON(ctx, s, key, snapshot{Items: []string{"p1", "p2"}, Count: 2}))
	found, err = LoadJSON(ctx, s, key, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, snapshot{Items: []string{"p1", "p2"}, Count: 2}, got)

	// overwrite
	require.NoError(t, SaveJSON(ctx, s, key, snapshot{Count: 5}))
	got = snapshot{}
	_, err = LoadJSON(ctx, s, key, &got)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Load(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	require.NoError(t, s.Save(ctx, "old", []byte("{}")))
	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, s.Save(ctx, "fresh", []byte("{}")))

	n, err := s.Sweep(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Load(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStoreTouchKeepsBlobFromSweep(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	require.NoError(t, s.Save(ctx, "kept", []byte("{}")))
	require.NoError(t, s.Save(ctx, "dropped", []byte("{}")))

	s.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, s.Touch(ctx, "kept", "never-saved"))

	n, err := s.Sweep(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "kept")
	assert.NoError(t, err)
	_, err = s.Load(ctx, "never-saved")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadJSONCorrupt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Save(ctx, "k", []byte("not json")))

	var got snapshot
	_, err := LoadJSON(ctx, s, "k", &got)
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStoreSweep(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, "a", []byte("{}")))
	require.NoError(t, s.Save(ctx, "b", []byte("{}")))

	n, err := s.Sweep(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = s.Sweep(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSQLiteStoreTouch(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(ctx, "a", []byte("{}")))
	require.NoError(t, s.Save(ctx, "b", []byte("{}")))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, s.db.Model(&Blob{}).Where("1 = 1").Update("updated_at", stale).Error)

	require.NoError(t, s.Touch(ctx, "a"))

	n, err := s.Sweep(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Load(ctx, "a")
	assert.NoError(t, err)
	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("redis not available: %v", err)
	}
	s := NewRedisStore(client, "castle-test:", time.Minute)
	defer s.Close()

	exerciseStore(t, s)
}
