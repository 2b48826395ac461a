package services

import (
	"context"
	"testing"

	"github.com/colorboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Toggle(t *testing.T) {
	f := newColorFixture()
	ctx := context.Background()

	record, err := f.colors.Create(ctx, "alice", types.ColorInput{Color: "red"})
	require.NoError(t, err)

	for _, want := range []bool{true, false, true} {
		got, err := f.favorites.Toggle(ctx, "bob", record.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	fav, err := f.favorites.IsFavorite(ctx, "bob", record.ID)
	require.NoError(t, err)
	assert.True(t, fav)
}

func TestFavoriteService_UnknownRecordIsNoop(t *testing.T) {
	f := newColorFixture()
	ctx := context.Background()

	got, err := f.favorites.Toggle(ctx, "bob", 42)
	require.NoError(t, err)
	assert.False(t, got)

	fav, err := f.favorites.IsFavorite(ctx, "bob", 42)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestFavoriteService_InvalidID(t *testing.T) {
	f := newColorFixture()

	_, err := f.favorites.Toggle(context.Background(), "bob", 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
