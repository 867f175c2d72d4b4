package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
)

type JobRepo struct{ db sqlx.ExtContext }

func NewJobRepo(db sqlx.ExtContext) *JobRepo { return &JobRepo{db: db} }

// ListOpen returns open postings with their company name, newest first.
func (r *JobRepo) ListOpen(ctx context.Context) ([]domain.Job, error) {
	out := []domain.Job{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT j.id, j.company_id, COALESCE(c.name, '') AS company_name,
		       j.title, j.description, j.status, j.created_at
		FROM jobs j
		LEFT JOIN companies c ON c.id = j.company_id
		WHERE j.status = ?
		ORDER BY j.created_at DESC
	`), domain.JobStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) error {
	j.ID = uuid.NewString()
	j.CreatedAt = timestamp()
	if j.Status == "" {
		j.Status = domain.JobStatusOpen
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO jobs(id, company_id, title, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), j.ID, j.CompanyID, j.Title, j.Description, j.Status, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
