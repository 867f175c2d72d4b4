package repos

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safehire/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestProfileByUserWrapsDBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT .* FROM profiles WHERE user_id = \?`).
		WithArgs("u-1").
		WillReturnError(errors.New("db down"))

	_, err := NewProfileRepo(db).ByUser(context.Background(), "u-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOpenBindsOpenStatus(t *testing.T) {
	db, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"id", "company_id", "company_name", "title", "description", "status", "created_at"}).
		AddRow("j1", "c1", "Acme", "Dev", "", "open", "2026-01-01T00:00:00.000000Z")
	mock.ExpectQuery(`(?s)SELECT .* FROM jobs j\s+LEFT JOIN companies c .* WHERE j.status = \?\s+ORDER BY j.created_at DESC`).
		WithArgs("open").
		WillReturnRows(rows)

	got, err := NewJobRepo(db).ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].CompanyName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyCreateWrapsDBError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO companies`).WillReturnError(errors.New("constraint"))

	c := domain.Company{OwnerUserID: "u-1", Name: "Acme"}
	err := NewCompanyRepo(db).Create(context.Background(), &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}
