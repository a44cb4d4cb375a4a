package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
	repoMocks "docvault/internal/repository/mocks"
)

var testAuthConfig = config.AuthConfig{JWTSecret: "jwt-secret", Issuer: "docvault", TokenTTL: time.Hour}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	alice := &model.User{ID: 1, Username: "alice", PasswordHash: hashed(t, "wonderland"), IsActive: true}
	bob := &model.User{ID: 2, Username: "bob", PasswordHash: hashed(t, "builder"), IsActive: false}

	users := new(repoMocks.MockUserRepository)
	users.On("FindByUsername", ctx, "alice").Return(alice, nil)
	users.On("FindByUsername", ctx, "bob").Return(bob, nil)
	users.On("FindByUsername", ctx, "carol").Return(nil, sql.ErrNoRows)
	users.On("FindByUsername", ctx, "dave").Return(nil, errors.New("db fail"))

	svc := NewAuthService(users, testAuthConfig)

	u, err := svc.Authenticate(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "bob", "builder")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "carol", "x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Authenticate(ctx, "dave", "x")
	assert.EqualError(t, err, "db fail")
}

func TestAuthService_Authenticate_RejectionsCompareOnce(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	users.On("FindByUsername", ctx, "bob").Return(&model.User{ID: 2, Username: "bob", IsActive: false}, nil)
	users.On("FindByUsername", ctx, "carol").Return(nil, sql.ErrNoRows)
	users.On("FindByUsername", ctx, "alice").
		Return(&model.User{ID: 1, Username: "alice", PasswordHash: hashed(t, "wonderland"), IsActive: true}, nil)

	svc := NewAuthService(users, testAuthConfig).(*authService)
	var hashes [][]byte
	svc.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	for _, name := range []string{"bob", "carol", "alice", ""} {
		hashes = nil
		_, err := svc.Authenticate(ctx, name, "wrong-password")
		assert.ErrorIs(t, err, ErrUnauthorized, name)
		require.Len(t, hashes, 1, name)
		if name != "alice" {
			assert.Equal(t, decoyHash(), hashes[0], name)
		}
	}
	users.AssertExpectations(t)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	alice := &model.User{ID: 1, Username: "alice", PasswordHash: hashed(t, "wonderland"), IsActive: true}

	users := new(repoMocks.MockUserRepository)
	users.On("FindByUsername", ctx, "alice").Return(alice, nil)
	users.On("FindByID", ctx, int64(1)).Return(alice, nil)

	svc := NewAuthService(users, testAuthConfig).(*authService)
	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	tok, err := svc.IssueToken(ctx, "alice", "wonderland")
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), tok.ExpiresAt)

	u, err := svc.VerifyToken(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return fixed.Add(2 * time.Hour) }
		defer func() { svc.now = func() time.Time { return fixed } }()

		_, err := svc.VerifyToken(ctx, tok.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "docvault",
			ExpiresAt: jwt.NewNumericDate(fixed.Add(time.Hour)),
		}).SignedString([]byte("not-the-secret"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(ctx, forged)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(fixed.Add(time.Hour)),
		}).SignedString([]byte("jwt-secret"))
		require.NoError(t, err)

		_, err = svc.VerifyToken(ctx, other)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.VerifyToken(ctx, "not.a.token")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	users.AssertExpectations(t)
}

func TestAuthService_VerifyToken_DeactivatedUser(t *testing.T) {
	ctx := context.Background()
	users := new(repoMocks.MockUserRepository)
	users.On("FindByID", ctx, int64(3)).Return(&model.User{ID: 3, IsActive: false}, nil)

	svc := NewAuthService(users, testAuthConfig)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "3",
		Issuer:    "docvault",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, raw)
	assert.ErrorIs(t, err, ErrUnauthorized)
	users.AssertExpectations(t)
}

func TestAuthService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "alice" && u.IsActive &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("wonderland")) == nil
		})).Return(&model.User{ID: 1, Username: "alice", IsActive: true}, nil)

		u, err := NewAuthService(users, testAuthConfig).CreateUser(ctx, NewUserInput{Username: " alice ", Password: "wonderland"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		users.AssertExpectations(t)
	})

	t.Run("short password", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		_, err := NewAuthService(users, testAuthConfig).CreateUser(ctx, NewUserInput{Username: "alice", Password: "short"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
	})

	t.Run("taken username", func(t *testing.T) {
		users := new(repoMocks.MockUserRepository)
		users.On("Create", ctx, mock.Anything).
			Return(nil, &repository.ConflictError{Field: "username", Err: errors.New("dup")})

		_, err := NewAuthService(users, testAuthConfig).CreateUser(ctx, NewUserInput{Username: "alice", Password: "wonderland"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
	})
}
