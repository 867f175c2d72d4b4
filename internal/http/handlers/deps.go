package handlers

import (
	"context"
	"encoding/json"

	"safehire/internal/registry"
)

// CompanyLookup is the registry client surface the company handler needs.
type CompanyLookup interface {
	Fetch(ctx context.Context, q registry.Lookup) (json.RawMessage, error)
}

type Deps struct {
	Profiles     *ProfileHandler
	Companies    *CompanyHandler
	Jobs         *JobHandler
	Credentials  *CredentialHandler
	Certificates *CertificateHandler
	Pages        *PageHandler
}

// NewDeps builds the handlers. Services are created per request from the
// request's datastore session, so only process-wide collaborators live here.
func NewDeps(lookup CompanyLookup) *Deps {
	return &Deps{
		Profiles:     &ProfileHandler{},
		Companies:    &CompanyHandler{Registry: lookup},
		Jobs:         &JobHandler{},
		Credentials:  &CredentialHandler{},
		Certificates: &CertificateHandler{},
		Pages:        &PageHandler{},
	}
}
