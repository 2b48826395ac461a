package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/colorboard/apiserver/internal/db"
)

var favoriteMarker = []byte("1")

// FavoriteRepository stores the per-user favorite sets. Every key lives
// under the owning user's partition.
type FavoriteRepository struct {
	kv db.Store
}

func NewFavoriteRepository(kv db.Store) *FavoriteRepository {
	return &FavoriteRepository{kv: kv}
}

// Toggle flips the favorite entry and returns the state this call produced.
func (r *FavoriteRepository) Toggle(ctx context.Context, username string, id int64) (bool, error) {
	key := favoriteKey(username, id)

	removed, err := r.kv.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	if removed {
		return false, nil
	}

	// A concurrent toggle may have created the entry between the two calls;
	// either way the entry is present once this returns.
	if _, err := r.kv.PutIfAbsent(ctx, key, favoriteMarker); err != nil {
		return false, fmt.Errorf("toggle favorite: %w", err)
	}
	return true, nil
}

func (r *FavoriteRepository) IsFavorite(ctx context.Context, username string, id int64) (bool, error) {
	if _, err := r.kv.Get(ctx, favoriteKey(username, id)); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get favorite: %w", err)
	}
	return true, nil
}

// IDs returns the set of record IDs the user has favorited.
func (r *FavoriteRepository) IDs(ctx context.Context, username string) (map[int64]struct{}, error) {
	partition := favoritePartition(username)
	entries, err := r.kv.Scan(ctx, partition)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	ids := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		if id, ok := parseIDSuffix(entry.Key, partition); ok {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}
