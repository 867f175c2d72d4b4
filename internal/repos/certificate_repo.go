package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
)

type CertificateRepo struct{ db sqlx.ExtContext }

func NewCertificateRepo(db sqlx.ExtContext) *CertificateRepo { return &CertificateRepo{db: db} }

// ClaimedBy lists certificates claimed by userID, newest first. Unclaimed rows
// are never returned even if claimed_by is set.
func (r *CertificateRepo) ClaimedBy(ctx context.Context, userID string) ([]domain.Certificate, error) {
	out := []domain.Certificate{}
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT id, title, token_id, claimed_by, is_claimed, created_at
		FROM nft_certificates
		WHERE claimed_by = ? AND is_claimed = ?
		ORDER BY created_at DESC
	`), userID, true)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
