package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"safehire/internal/domain"
)

// RemoteProvider asks a hosted auth service for the user behind an access
// token (GET {url}/auth/v1/user with the project's public key).
type RemoteProvider struct {
	baseURL   string
	publicKey string
	timeout   time.Duration
}

func NewRemoteProvider(baseURL, publicKey string, timeout time.Duration) *RemoteProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteProvider{baseURL: strings.TrimRight(baseURL, "/"), publicKey: publicKey, timeout: timeout}
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (p *RemoteProvider) CurrentUser(_ context.Context, token string) (*domain.User, error) {
	if p.baseURL == "" || p.publicKey == "" {
		return nil, ErrNotConfigured
	}
	if token == "" {
		return nil, ErrUnauthenticated
	}

	a := fiber.Get(p.baseURL + "/auth/v1/user")
	a.Set("apikey", p.publicKey)
	a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Timeout(p.timeout)

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("identity request: %w", errors.Join(errs...))
	}
	switch {
	case code == fiber.StatusUnauthorized || code == fiber.StatusForbidden:
		return nil, ErrUnauthenticated
	case code != fiber.StatusOK:
		return nil, fmt.Errorf("identity provider returned %d", code)
	}

	var u remoteUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("identity response: %w", err)
	}
	if u.ID == "" {
		return nil, ErrUnauthenticated
	}
	return &domain.User{ID: u.ID, Email: u.Email}, nil
}
