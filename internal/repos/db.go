package repos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"safehire/internal/domain"
	"safehire/internal/repos/migrations"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// TimeLayout is fixed width so string ordering equals time ordering.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// now is replaced in tests that need deterministic ordering.
var now = func() time.Time { return time.Now().UTC() }

func timestamp() string { return now().UTC().Format(TimeLayout) }

// OpenDB connects with driver "sqlite" or "pgx" and applies migrations.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if driver == "sqlite" {
		// One writer keeps SQLite from returning SQLITE_BUSY under concurrent handlers.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
			db.Close()
			return nil, fmt.Errorf("db pragma error: %w", err)
		}
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// Migrate runs the embedded goose migrations for the connection's dialect.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	dir, dialect := "sqlite", "sqlite3"
	if db.DriverName() == "pgx" {
		dir, dialect = "postgres", "postgres"
	}
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db.DB, dir)
}

type demoUser struct {
	ID, Email, Role string
}

var demoUsers = []demoUser{
	{"u-seeker", "seeker@safehire.test", "job_seeker"},
	{"u-employer", "employer@safehire.test", "employer_admin"},
	{"u-institution", "institution@safehire.test", "institution"},
}

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "Passw0rd!"

// SeedDemo ensures demo accounts, profiles, a company and an open job exist.
// Safe to run on every start.
func SeedDemo(db *sqlx.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ts := timestamp()
	for _, u := range demoUsers {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,email,password_hash) VALUES(?,?,?)
			ON CONFLICT(id) DO NOTHING`), u.ID, u.Email, string(hash)); err != nil {
			return err
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO profiles(user_id,email,role,aadhaar_verified,created_at,updated_at)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(user_id) DO NOTHING`), u.ID, u.Email, u.Role, false, ts, ts); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(tx.Rebind(`
		INSERT INTO companies(id,owner_user_id,name,verification_status,created_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(id) DO NOTHING`), "c-demo", "u-employer", "Demo Industries", domain.VerificationVerified, ts); err != nil {
		return err
	}
	if _, err := tx.Exec(tx.Rebind(`
		INSERT INTO jobs(id,company_id,title,description,status,created_at)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(id) DO NOTHING`), "j-demo", "c-demo", "Backend Engineer", "Build hiring pipelines.", "open", ts); err != nil {
		return err
	}

	log.Println("[seed] demo accounts ensured")
	return tx.Commit()
}
