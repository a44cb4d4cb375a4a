package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// Token is an issued bearer token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewUserInput is what an operator supplies to create an API user.
type NewUserInput struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// AuthService authenticates API callers by password or bearer token.
type AuthService interface {
	// Authenticate checks a username/password pair against the stored bcrypt hash.
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	// IssueToken authenticates and signs a token for the caller.
	IssueToken(ctx context.Context, username, password string) (*Token, error)
	// VerifyToken validates a bearer token and returns its still-active user.
	VerifyToken(ctx context.Context, token string) (*model.User, error)
	// CreateUser stores a new active user with a hashed password.
	CreateUser(ctx context.Context, in NewUserInput) (*model.User, error)
}

type authService struct {
	users   repository.UserRepository
	secret  []byte
	issuer  string
	ttl     time.Duration
	now     func() time.Time
	compare func(hash, password []byte) error
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// decoyHash is compared against when there is no usable stored hash, so a
// rejected login costs one bcrypt comparison whether or not the user exists.
func decoyHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("docvault-decoy-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

func NewAuthService(users repository.UserRepository, cfg config.AuthConfig) AuthService {
	return &authService{
		users:   users,
		secret:  []byte(cfg.JWTSecret),
		issuer:  cfg.Issuer,
		ttl:     cfg.TokenTTL,
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// reject burns one comparison against the decoy hash and returns ErrUnauthorized.
func (s *authService) reject(password string) error {
	_ = s.compare(decoyHash(), []byte(password))
	return ErrUnauthorized
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, s.reject(password)
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.reject(password)
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, s.reject(password)
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *authService) IssueToken(ctx context.Context, username, password string) (*Token, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	exp := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(u.ID, 10),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Token{Token: signed, ExpiresAt: exp.Truncate(time.Second)}, nil
}

func (s *authService) VerifyToken(ctx context.Context, raw string) (*model.User, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrUnauthorized
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUnauthorized
	}
	return u, nil
}

func (s *authService) CreateUser(ctx context.Context, in NewUserInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, &model.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		var conflict *repository.ConflictError
		if errors.As(err, &conflict) {
			return nil, newValidationError("username", "a user with that username already exists")
		}
		return nil, err
	}
	return u, nil
}
