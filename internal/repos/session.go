package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Session is the datastore client for a single request. It is built per
// request and carried in the request context; there is no package-level
// client.
type Session struct {
	Profiles     *ProfileRepo
	Companies    *CompanyRepo
	Jobs         *JobRepo
	Credentials  *CredentialRepo
	Certificates *CertificateRepo
}

func NewSession(db sqlx.ExtContext) *Session {
	return &Session{
		Profiles:     NewProfileRepo(db),
		Companies:    NewCompanyRepo(db),
		Jobs:         NewJobRepo(db),
		Credentials:  NewCredentialRepo(db),
		Certificates: NewCertificateRepo(db),
	}
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the request's session, or nil when none was attached.
func SessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
