package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"safehire/internal/domain"
	"safehire/internal/repos"
	"safehire/internal/validate"
)

var ErrInvalidRole = errors.New("invalid role")

type ProfileService struct {
	Profiles *repos.ProfileRepo
	// digits returns a number in [100000, 999999].
	digits func() (int, error)
}

func NewProfileService(profiles *repos.ProfileRepo) *ProfileService {
	return &ProfileService{Profiles: profiles, digits: randomDigits}
}

func randomDigits() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 100000, nil
}

// Get returns nil without error when the user has no profile yet.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.Profiles.ByUser(ctx, userID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// SetRole validates raw and upserts it. Nothing is written for an invalid role.
func (s *ProfileService) SetRole(ctx context.Context, u *domain.User, raw string) (domain.Role, error) {
	role, ok := validate.Role(raw)
	if !ok {
		return "", ErrInvalidRole
	}
	if err := s.Profiles.UpsertRole(ctx, u.ID, u.Email, role); err != nil {
		return "", err
	}
	return role, nil
}

// MarkEmployer sets role employer_admin whatever the previous role was.
func (s *ProfileService) MarkEmployer(ctx context.Context, u *domain.User) error {
	return s.Profiles.UpsertRole(ctx, u.ID, u.Email, domain.RoleEmployerAdmin)
}

// EnsureSafeID returns the stored safe hire id, generating one on first call.
// created is false when an id already existed.
//
// Generated ids are not checked against other profiles, so two users can
// draw the same code.
func (s *ProfileService) EnsureSafeID(ctx context.Context, u *domain.User) (id string, created bool, err error) {
	p, err := s.Get(ctx, u.ID)
	if err != nil {
		return "", false, err
	}
	if existing := p.SafeID(); existing != "" {
		return existing, false, nil
	}

	n, err := s.digits()
	if err != nil {
		return "", false, fmt.Errorf("generate safe id: %w", err)
	}
	candidate := fmt.Sprintf("%s%06d", p.RoleValue().SafeIDPrefix(), n)

	stored, err := s.Profiles.AssignSafeID(ctx, u.ID, u.Email, candidate)
	if err != nil {
		return "", false, err
	}
	return stored, stored == candidate, nil
}
