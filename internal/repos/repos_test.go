package repos

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// steppedClock makes every timestamp one second later than the previous one.
func steppedClock(t *testing.T) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	prev := now
	now = func() time.Time {
		i++
		return base.Add(time.Duration(i) * time.Second)
	}
	t.Cleanup(func() { now = prev })
}

func TestProfileMissingRow(t *testing.T) {
	db := openTestDB(t)
	_, err := NewProfileRepo(db).ByUser(context.Background(), "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestProfileUpsertRoleKeepsSingleRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	if err := repo.UpsertRole(ctx, "u-1", "a@b.test", domain.RoleJobSeeker); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertRole(ctx, "u-1", "a@b.test", domain.RoleEmployerAdmin); err != nil {
		t.Fatal(err)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM profiles WHERE user_id='u-1'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 row, got %d", n)
	}
	p, err := repo.ByUser(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if p.RoleValue() != domain.RoleEmployerAdmin {
		t.Fatalf("role not updated: %+v", p)
	}
	if p.AadhaarVerified {
		t.Fatal("aadhaar_verified should default to false")
	}
}

func TestAssignSafeIDKeepsFirstValue(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepo(db)
	ctx := context.Background()

	first, err := repo.AssignSafeID(ctx, "u-1", "", "JS111111")
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.AssignSafeID(ctx, "u-1", "", "JS222222")
	if err != nil {
		t.Fatal(err)
	}
	if first != "JS111111" || second != "JS111111" {
		t.Fatalf("safe id changed: first=%s second=%s", first, second)
	}
}

func TestCompaniesScopedToOwner(t *testing.T) {
	steppedClock(t)
	db := openTestDB(t)
	repo := NewCompanyRepo(db)
	ctx := context.Background()

	for _, c := range []domain.Company{
		{OwnerUserID: "u-1", Name: "Older"},
		{OwnerUserID: "u-2", Name: "Someone else"},
		{OwnerUserID: "u-1", Name: "Newer"},
	} {
		c := c
		if err := repo.Create(ctx, &c); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.ListByOwner(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "Newer" || got[1].Name != "Older" {
		t.Fatalf("unexpected companies: %+v", got)
	}
	if got[0].VerificationStatus != domain.VerificationPending {
		t.Fatalf("default status not pending: %s", got[0].VerificationStatus)
	}

	if _, err := repo.Owned(ctx, got[0].ID, "u-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign owner should not see company, got %v", err)
	}

	empty, err := repo.ListByOwner(ctx, "u-3")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("want empty non-nil slice, got %v %v", empty, err)
	}
}

func TestJobsListOpenOnlyNewestFirst(t *testing.T) {
	steppedClock(t)
	db := openTestDB(t)
	ctx := context.Background()
	c := domain.Company{OwnerUserID: "u-1", Name: "Acme"}
	if err := NewCompanyRepo(db).Create(ctx, &c); err != nil {
		t.Fatal(err)
	}
	jobs := NewJobRepo(db)
	for _, j := range []domain.Job{
		{CompanyID: c.ID, Title: "first", Status: domain.JobStatusOpen},
		{CompanyID: c.ID, Title: "closed", Status: domain.JobStatusClosed},
		{CompanyID: c.ID, Title: "draft", Status: domain.JobStatusDraft},
		{CompanyID: c.ID, Title: "second"},
	} {
		j := j
		if err := jobs.Create(ctx, &j); err != nil {
			t.Fatal(err)
		}
	}

	got, err := jobs.ListOpen(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 open jobs, got %+v", got)
	}
	for _, j := range got {
		if j.Status != domain.JobStatusOpen {
			t.Fatalf("non-open job returned: %+v", j)
		}
		if j.CompanyName != "Acme" {
			t.Fatalf("company name not joined: %+v", j)
		}
	}
	if got[0].Title != "second" {
		t.Fatalf("not newest first: %+v", got)
	}
}

func TestCertificatesClaimedOnly(t *testing.T) {
	db := openTestDB(t)
	db.MustExec(`INSERT INTO nft_certificates(id,title,claimed_by,is_claimed,created_at) VALUES
	  ('n1','Old','u-1',1,'2026-01-01T00:00:01.000000Z'),
	  ('n2','Pending','u-1',0,'2026-01-01T00:00:02.000000Z'),
	  ('n3','New','u-1',1,'2026-01-01T00:00:03.000000Z'),
	  ('n4','Other','u-2',1,'2026-01-01T00:00:04.000000Z')`)

	got, err := NewCertificateRepo(db).ClaimedBy(context.Background(), "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "n3" || got[1].ID != "n1" {
		t.Fatalf("unexpected certificates: %+v", got)
	}
	for _, c := range got {
		if !c.IsClaimed {
			t.Fatalf("unclaimed certificate returned: %+v", c)
		}
	}
}

func TestCredentialInsertAndList(t *testing.T) {
	db := openTestDB(t)
	repo := NewCredentialRepo(db)
	ctx := context.Background()

	c := domain.Credential{SubjectUserID: "u-1", IssuerUserID: "u-9", Type: "degree", EncryptedPayload: "x", Hash: "y", Status: domain.IssuancePending}
	if err := repo.Insert(ctx, &c); err != nil {
		t.Fatal(err)
	}
	if c.ID == "" || c.CreatedAt == "" {
		t.Fatalf("id/created_at not set: %+v", c)
	}
	got, err := repo.ListBySubject(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Status != domain.IssuancePending || got[0].ExpiresAt != nil {
		t.Fatalf("unexpected credentials: %+v", got)
	}
}

func TestSessionContextRoundTrip(t *testing.T) {
	if SessionFrom(context.Background()) != nil {
		t.Fatal("expected nil session on bare context")
	}
	db := openTestDB(t)
	s := NewSession(db)
	if SessionFrom(WithSession(context.Background(), s)) != s {
		t.Fatal("session not carried by context")
	}
}

func TestSeedDemoIdempotent(t *testing.T) {
	db := openTestDB(t)
	for i := 0; i < 2; i++ {
		if err := SeedDemo(db); err != nil {
			t.Fatalf("seed #%d: %v", i, err)
		}
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatal(err)
	}
	if n != len(demoUsers) {
		t.Fatalf("want %d users, got %d", len(demoUsers), n)
	}
	var status string
	if err := db.Get(&status, `SELECT verification_status FROM companies WHERE id = 'c-demo'`); err != nil {
		t.Fatal(err)
	}
	if status != domain.VerificationVerified {
		t.Fatalf("demo company status %q", status)
	}
}
