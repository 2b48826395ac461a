package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	kv db.Store
}

func NewUserRepository(kv db.Store) *UserRepository {
	return &UserRepository{kv: kv}
}

// userRecord is the stored form of a user; types.User hides the hash from JSON.
type userRecord struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Create stores a new user. The uniqueness check and the write are a single
// put-if-absent call against the store, so concurrent signups for the same
// username cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	user.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(userRecord{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return types.User{}, err
	}

	created, err := r.kv.PutIfAbsent(ctx, userKey(user.Username), data)
	if err != nil {
		return types.User{}, fmt.Errorf("create user: %w", err)
	}
	if !created {
		return types.User{}, ErrAlreadyExists
	}
	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	data, err := r.kv.Get(ctx, userKey(username))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, fmt.Errorf("get user: %w", err)
	}

	var rec userRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.User{}, fmt.Errorf("decode user: %w", err)
	}
	return types.User{
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}, nil
}

// ListUsernames returns every registered username in key order.
func (r *UserRepository) ListUsernames(ctx context.Context) ([]string, error) {
	entries, err := r.kv.Scan(ctx, userPrefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	usernames := make([]string, 0, len(entries))
	for _, entry := range entries {
		escaped := strings.TrimPrefix(entry.Key, userPrefix)
		username, err := url.QueryUnescape(escaped)
		if err != nil {
			continue
		}
		usernames = append(usernames, username)
	}
	return usernames, nil
}
