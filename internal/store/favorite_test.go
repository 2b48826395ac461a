package store

import (
	"context"
	"testing"

	"github.com/colorboard/apiserver/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteRepository_ToggleSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepository(db.NewMemoryStore())

	for i, want := range []bool{true, false, true} {
		got, err := repo.Toggle(ctx, "alice", 7)
		require.NoError(t, err)
		assert.Equal(t, want, got, "toggle %d", i+1)

		fav, err := repo.IsFavorite(ctx, "alice", 7)
		require.NoError(t, err)
		assert.Equal(t, want, fav)
	}
}

func TestFavoriteRepository_PartitionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewFavoriteRepository(db.NewMemoryStore())

	_, err := repo.Toggle(ctx, "a:b", 1)
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, "a", 2)
	require.NoError(t, err)

	ids, err := repo.IDs(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{2: {}}, ids)

	ids, err = repo.IDs(ctx, "a:b")
	require.NoError(t, err)
	assert.Equal(t, map[int64]struct{}{1: {}}, ids)

	fav, err := repo.IsFavorite(ctx, "a", 1)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestFavoriteRepository_IDsEmpty(t *testing.T) {
	ids, err := NewFavoriteRepository(db.NewMemoryStore()).IDs(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
