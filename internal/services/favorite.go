package services

import (
	"context"
	"fmt"
)

// RecordChecker reports whether a color record exists.
type RecordChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// FavoriteService toggles and reads per-user favorites.
type FavoriteService struct {
	colors    RecordChecker
	favorites FavoriteRepository
}

func NewFavoriteService(colors RecordChecker, favorites FavoriteRepository) *FavoriteService {
	return &FavoriteService{colors: colors, favorites: favorites}
}

// Toggle flips the favorite state and returns the state it produced.
// Unknown record IDs are a no-op reporting false.
func (s *FavoriteService) Toggle(ctx context.Context, username string, id int64) (bool, error) {
	if id < 1 {
		return false, fmt.Errorf("%w: invalid color id", ErrInvalidInput)
	}

	exists, err := s.colors.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return s.favorites.Toggle(ctx, username, id)
}

func (s *FavoriteService) IsFavorite(ctx context.Context, username string, id int64) (bool, error) {
	return s.favorites.IsFavorite(ctx, username, id)
}
