package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/internal/store"
	"github.com/signetlabs/signet/pkg/cryptox"
	"github.com/signetlabs/signet/pkg/idx"
	"github.com/signetlabs/signet/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUsernameTaken      = errors.New("username_taken")
)

// decoyHash is a well-formed scrypt record verified when the username does
// not exist, so unknown usernames cost the same as wrong passwords.
var decoyHash = strings.Repeat("0", 32) + ":" + strings.Repeat("0", 128)

type UserService struct {
	Users store.Users
}

// Signup creates a user with a freshly hashed password.
func (s *UserService) Signup(ctx context.Context, username, password string) (domain.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.VerifyPassword(password, decoyHash)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		l.Info("password verification failed", "username", username)
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Users.GetUserByID(ctx, userID)
}
