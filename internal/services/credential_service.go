package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"

	"safehire/internal/domain"
	"safehire/internal/repos"
	"safehire/internal/validate"
)

// Placeholder values stored until issuer keys exist. A credential carrying
// them is always IssuancePending.
const (
	PendingPayload = "PENDING_ENCRYPTION"
	PendingHash    = "PENDING_SIGNATURE"
)

var ErrInvalidCredential = errors.New("invalid credential request")

// ValidationError lists the schema violations of an issue request.
type ValidationError struct{ Problems []string }

func (e *ValidationError) Error() string {
	return "credential request: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidCredential }

const issueSchema = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"type": "string", "minLength": 1, "maxLength": 64},
    "payload": {},
    "subject_user_id": {"type": "string", "maxLength": 64},
    "expires_at": {"type": "string"}
  }
}`

type IssueRequest struct {
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload"`
	SubjectUserID string          `json:"subject_user_id"`
	ExpiresAt     string          `json:"expires_at"`
}

var issueRS = mustSchema(issueSchema)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("credential schema: %v", err))
	}
	return rs
}

type CredentialService struct {
	Credentials *repos.CredentialRepo
}

func NewCredentialService(creds *repos.CredentialRepo) *CredentialService {
	return &CredentialService{Credentials: creds}
}

// Issue validates raw against the request schema and stores a pending
// credential for the subject, or for the issuer when no subject is given.
func (s *CredentialService) Issue(ctx context.Context, issuer *domain.User, raw []byte) (*domain.Credential, error) {
	if !json.Valid(raw) {
		return nil, &ValidationError{Problems: []string{"body is not valid JSON"}}
	}
	kerrs, err := issueRS.ValidateBytes(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("schema validate: %w", err)
	}
	if len(kerrs) > 0 {
		ve := &ValidationError{}
		for _, k := range kerrs {
			ve.Problems = append(ve.Problems, strings.TrimSpace(k.PropertyPath+" "+k.Message))
		}
		return nil, ve
	}

	var req IssueRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	typ, ok := validate.CredentialType(req.Type)
	switch {
	case typ == "":
		return nil, &ValidationError{Problems: []string{"type is required"}}
	case !ok:
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("type must be at most %d characters", validate.MaxCredentialType)}}
	}

	subject := issuer.ID
	if strings.TrimSpace(req.SubjectUserID) != "" {
		id, ok := validate.ID(req.SubjectUserID)
		if !ok {
			return nil, &ValidationError{Problems: []string{"subject_user_id is invalid"}}
		}
		subject = id
	}

	c := &domain.Credential{
		SubjectUserID: subject,
		IssuerUserID:  issuer.ID,
		Type:          typ,
		// TODO: encrypt req.Payload and sign its hash once issuer keys are provisioned.
		EncryptedPayload: PendingPayload,
		Hash:             PendingHash,
		Status:           domain.IssuancePending,
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return nil, &ValidationError{Problems: []string{"expires_at must be RFC3339"}}
		}
		exp := t.UTC().Format(repos.TimeLayout)
		c.ExpiresAt = &exp
	}

	if err := s.Credentials.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CredentialService) ListFor(ctx context.Context, subjectID string) ([]domain.Credential, error) {
	return s.Credentials.ListBySubject(ctx, subjectID)
}
