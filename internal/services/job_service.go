package services

import (
	"context"
	"errors"
	"strings"

	"safehire/internal/domain"
	"safehire/internal/repos"
	"safehire/internal/validate"
)

var ErrInvalidJob = errors.New("company_id and title are required")

type JobService struct {
	Jobs      *repos.JobRepo
	Companies *repos.CompanyRepo
}

func NewJobService(jobs *repos.JobRepo, companies *repos.CompanyRepo) *JobService {
	return &JobService{Jobs: jobs, Companies: companies}
}

func (s *JobService) ListOpen(ctx context.Context) ([]domain.Job, error) {
	return s.Jobs.ListOpen(ctx)
}

type NewJob struct {
	CompanyID   string `json:"company_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Post opens a job under a company the caller owns. A company owned by
// someone else reports repos.ErrNotFound.
func (s *JobService) Post(ctx context.Context, ownerID string, in NewJob) (*domain.Job, error) {
	companyID, ok := validate.ID(in.CompanyID)
	if !ok {
		return nil, ErrInvalidJob
	}
	title, ok := validate.JobTitle(in.Title)
	if !ok {
		return nil, ErrInvalidJob
	}
	c, err := s.Companies.Owned(ctx, companyID, ownerID)
	if err != nil {
		return nil, err
	}
	j := &domain.Job{
		CompanyID:   c.ID,
		CompanyName: c.Name,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.JobStatusOpen,
	}
	if err := s.Jobs.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}
