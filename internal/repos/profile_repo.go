package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
)

type ProfileRepo struct{ db sqlx.ExtContext }

func NewProfileRepo(db sqlx.ExtContext) *ProfileRepo { return &ProfileRepo{db: db} }

const profileColumns = `user_id, email, role, safe_hire_id, aadhaar_verified, created_at, updated_at`

// ByUser returns ErrNotFound when the user has no profile row.
func (r *ProfileRepo) ByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

// UpsertRole creates the row if needed and sets role, leaving other columns alone.
func (r *ProfileRepo) UpsertRole(ctx context.Context, userID, email string, role domain.Role) error {
	ts := timestamp()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO profiles(user_id, email, role, aadhaar_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET role = excluded.role, updated_at = excluded.updated_at
	`), userID, nullIfEmpty(email), string(role), false, ts, ts)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// AssignSafeID stores candidate unless a safe hire id is already present, and
// returns whichever value the row holds afterwards.
func (r *ProfileRepo) AssignSafeID(ctx context.Context, userID, email, candidate string) (string, error) {
	ts := timestamp()
	var stored string
	err := sqlx.GetContext(ctx, r.db, &stored, r.db.Rebind(`
		INSERT INTO profiles(user_id, email, safe_hire_id, aadhaar_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
		  safe_hire_id = COALESCE(profiles.safe_hire_id, excluded.safe_hire_id),
		  updated_at = excluded.updated_at
		RETURNING safe_hire_id
	`), userID, nullIfEmpty(email), candidate, false, ts, ts)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return stored, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
