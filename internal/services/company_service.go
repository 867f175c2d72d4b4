package services

import (
	"context"
	"errors"

	"safehire/internal/domain"
	"safehire/internal/repos"
	"safehire/internal/validate"
)

var (
	ErrInvalidCompanyName = errors.New("company name is required")
	ErrInvalidCIN         = errors.New("invalid cin")
	ErrInvalidPAN         = errors.New("invalid pan")
)

type CompanyService struct {
	Companies *repos.CompanyRepo
}

func NewCompanyService(companies *repos.CompanyRepo) *CompanyService {
	return &CompanyService{Companies: companies}
}

func (s *CompanyService) ListMine(ctx context.Context, ownerID string) ([]domain.Company, error) {
	return s.Companies.ListByOwner(ctx, ownerID)
}

type NewCompany struct {
	Name string `json:"name" form:"name"`
	CIN  string `json:"cin" form:"cin"`
	PAN  string `json:"pan" form:"pan"`
}

// Create registers a company owned by ownerID with verification pending.
func (s *CompanyService) Create(ctx context.Context, ownerID string, in NewCompany) (*domain.Company, error) {
	name, ok := validate.CompanyName(in.Name)
	if !ok {
		return nil, ErrInvalidCompanyName
	}
	c := &domain.Company{OwnerUserID: ownerID, Name: name, VerificationStatus: domain.VerificationPending}
	if in.CIN != "" {
		cin, ok := validate.CIN(in.CIN)
		if !ok {
			return nil, ErrInvalidCIN
		}
		c.CIN = &cin
	}
	if in.PAN != "" {
		pan, ok := validate.PAN(in.PAN)
		if !ok {
			return nil, ErrInvalidPAN
		}
		c.PAN = &pan
	}
	if err := s.Companies.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
