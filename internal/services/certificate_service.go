package services

import (
	"context"

	"safehire/internal/domain"
	"safehire/internal/repos"
)

type CertificateService struct {
	Certificates *repos.CertificateRepo
}

func NewCertificateService(certs *repos.CertificateRepo) *CertificateService {
	return &CertificateService{Certificates: certs}
}

func (s *CertificateService) ListClaimed(ctx context.Context, userID string) ([]domain.Certificate, error) {
	return s.Certificates.ClaimedBy(ctx, userID)
}
