package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/colorboard/apiserver/internal/auth"
	"github.com/colorboard/apiserver/internal/db"
	"github.com/colorboard/apiserver/internal/store"
	"github.com/colorboard/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() *UserService {
	return NewUserService(store.NewUserRepository(db.NewMemoryStore()), auth.NewBcryptHasher(bcrypt.MinCost))
}

func TestUserService_RegisterAndVerify(t *testing.T) {
	ctx := context.Background()
	s := newTestUserService()

	user, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "pw1", user.PasswordHash)

	verified, err := s.Verify(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", verified.Username)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestUserService()

	_, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrUserExists)

	// The original password still works.
	_, err = s.Verify(ctx, "alice", "pw1")
	assert.NoError(t, err)
}

func TestUserService_RegisterMissingFields(t *testing.T) {
	ctx := context.Background()
	s := newTestUserService()

	_, err := s.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Register(ctx, "   ", "pw")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Register(ctx, "alice", strings.Repeat("x", 100))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_VerifyFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s := newTestUserService()

	_, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, wrongPassword := s.Verify(ctx, "alice", "pw2")
	_, unknownUser := s.Verify(ctx, "nobody", "pw1")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

type failingUserRepo struct{}

func (failingUserRepo) Create(context.Context, types.User) (types.User, error) {
	return types.User{}, errors.New("store down")
}

func (failingUserRepo) GetByUsername(context.Context, string) (types.User, error) {
	return types.User{}, errors.New("store down")
}

func (failingUserRepo) ListUsernames(context.Context) ([]string, error) {
	return nil, errors.New("store down")
}

func TestUserService_StoreErrorsAreNotCredentialErrors(t *testing.T) {
	s := NewUserService(failingUserRepo{}, auth.NewBcryptHasher(bcrypt.MinCost))

	_, err := s.Verify(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Register(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)
}
