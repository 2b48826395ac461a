package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/colorboard/apiserver/internal/auth"
	"github.com/colorboard/apiserver/internal/store"
	"github.com/colorboard/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user types.User) (types.User, error)
	GetByUsername(ctx context.Context, username string) (types.User, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// UserService registers and authenticates users.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	// dummyHash is compared against when the username is unknown so that
	// both failure paths pay the hashing cost.
	dummyHash string
}

func NewUserService(repo UserRepository, hasher PasswordHasher) *UserService {
	dummyHash, _ := hasher.Hash("colorboard-dummy-password")
	return &UserService{
		repo:      repo,
		hasher:    hasher,
		dummyHash: dummyHash,
	}
}

// Register creates an account. It fails with ErrUserExists if the
// username is taken and ErrInvalidInput if a field is missing.
func (s *UserService) Register(ctx context.Context, username, password string) (types.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return types.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return types.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     username,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return types.User{}, ErrUserExists
		}
		return types.User{}, err
	}
	return user, nil
}

// Verify checks credentials and returns the stored user.
func (s *UserService) Verify(ctx context.Context, username, password string) (types.User, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) ListUsernames(ctx context.Context) ([]string, error) {
	return s.repo.ListUsernames(ctx)
}
