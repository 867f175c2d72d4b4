package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
)

type CredentialRepo struct{ db sqlx.ExtContext }

func NewCredentialRepo(db sqlx.ExtContext) *CredentialRepo { return &CredentialRepo{db: db} }

// Insert writes a new credential. Credentials are never updated in place.
func (r *CredentialRepo) Insert(ctx context.Context, c *domain.Credential) error {
	c.ID = uuid.NewString()
	c.CreatedAt = timestamp()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO credentials(id, subject_user_id, issuer_user_id, type, encrypted_payload, hash, status, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.SubjectUserID, c.IssuerUserID, c.Type, c.EncryptedPayload, c.Hash, string(c.Status), c.ExpiresAt, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *CredentialRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.Credential, error) {
	out := []domain.Credential{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT id, subject_user_id, issuer_user_id, type, encrypted_payload, hash, status, expires_at, created_at
		FROM credentials
		WHERE subject_user_id = ?
		ORDER BY created_at DESC
	`), subjectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
