package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
)

type CompanyRepo struct{ db sqlx.ExtContext }

func NewCompanyRepo(db sqlx.ExtContext) *CompanyRepo { return &CompanyRepo{db: db} }

const companyColumns = `id, owner_user_id, name, cin, pan, verification_status, created_at`

func (r *CompanyRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Company, error) {
	out := []domain.Company{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+companyColumns+`
		FROM companies
		WHERE owner_user_id = ?
		ORDER BY created_at DESC
	`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Owned returns the company only if ownerID owns it.
func (r *CompanyRepo) Owned(ctx context.Context, id, ownerID string) (*domain.Company, error) {
	var c domain.Company
	err := sqlx.GetContext(ctx, r.db, &c, r.db.Rebind(`
		SELECT `+companyColumns+` FROM companies WHERE id = ? AND owner_user_id = ?
	`), id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepo) Create(ctx context.Context, c *domain.Company) error {
	c.ID = uuid.NewString()
	c.CreatedAt = timestamp()
	if c.VerificationStatus == "" {
		c.VerificationStatus = domain.VerificationPending
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO companies(id, owner_user_id, name, cin, pan, verification_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.OwnerUserID, c.Name, c.CIN, c.PAN, c.VerificationStatus, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
