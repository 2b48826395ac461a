package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorRepository_CreateStampsServerFields(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("KST", 9*3600))
	repo := NewColorRepository(db.NewMemoryStore())
	repo.now = func() time.Time { return fixed }

	record, err := repo.Create(ctx, "alice", types.ColorInput{Color: "red", Comment: "warm"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, "alice", record.Author)
	assert.Equal(t, "red", record.Color)
	assert.Equal(t, "warm", record.Comment)
	assert.Equal(t, time.UTC, record.CreatedAt.Location())
	assert.True(t, fixed.Equal(record.CreatedAt))

	got, err := repo.Get(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Author, got.Author)
}

func TestColorRepository_IdenticalClockStillDistinctIDs(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewColorRepository(db.NewMemoryStore())
	repo.now = func() time.Time { return fixed }

	first, err := repo.Create(ctx, "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, "bob", types.ColorInput{Color: "blue"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestColorRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewColorRepository(db.NewMemoryStore())

	const posts = 50
	var wg sync.WaitGroup
	ids := make(chan int64, posts)
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := repo.Create(ctx, "alice", types.ColorInput{Color: "green"})
			assert.NoError(t, err)
			ids <- record.ID
		}()
	}
	wg.Wait()
	close(ids)

	unique := make(map[int64]struct{})
	for id := range ids {
		unique[id] = struct{}{}
	}
	assert.Len(t, unique, posts)

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, posts)
}

func TestColorRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewColorRepository(db.NewMemoryStore())

	// Crossing 9 -> 10 checks that key order is numeric order.
	for i := 0; i < 11; i++ {
		_, err := repo.Create(ctx, "alice", types.ColorInput{Color: "c"})
		require.NoError(t, err)
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 11)
	for i, record := range records {
		assert.Equal(t, int64(11-i), record.ID)
	}
}

func TestColorRepository_ListEmpty(t *testing.T) {
	records, err := NewColorRepository(db.NewMemoryStore()).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestColorRepository_Exists(t *testing.T) {
	ctx := context.Background()
	repo := NewColorRepository(db.NewMemoryStore())

	record, err := repo.Create(ctx, "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)

	ok, err := repo.Exists(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestColorRepository_CounterCollision(t *testing.T) {
	ctx := context.Background()
	kv := db.NewMemoryStore()
	repo := NewColorRepository(kv)

	require.NoError(t, kv.Put(ctx, colorKey(1), []byte(`{"id":1}`)))

	_, err := repo.Create(ctx, "alice", types.ColorInput{Color: "red"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}
