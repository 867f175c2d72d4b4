package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"safehire/internal/domain"
	"safehire/internal/identity"
	"safehire/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

// AuthService is the local identity provider used in development and tests.
// It satisfies identity.Provider with the session cookie as the token.
type AuthService struct {
	Users *repos.UserRepo
}

var _ identity.Provider = (*AuthService)(nil)

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a local account. Only reachable from tooling and tests.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.Users.Create(ctx, email, string(h))
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	if sid == "" {
		return nil, identity.ErrUnauthenticated
	}
	u, err := s.Users.SessionUser(ctx, sid)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, identity.ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}
