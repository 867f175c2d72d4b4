package domain

const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"

	VerificationPending  = "pending"
	VerificationVerified = "verified"
)

type Company struct {
	ID                 string  `db:"id" json:"id"`
	OwnerUserID        string  `db:"owner_user_id" json:"owner_user_id"`
	Name               string  `db:"name" json:"name"`
	CIN                *string `db:"cin" json:"cin"`
	PAN                *string `db:"pan" json:"pan"`
	VerificationStatus string  `db:"verification_status" json:"verification_status"`
	CreatedAt          string  `db:"created_at" json:"created_at"`
}

type Job struct {
	ID          string `db:"id" json:"id"`
	CompanyID   string `db:"company_id" json:"company_id"`
	CompanyName string `db:"company_name" json:"company_name"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Status      string `db:"status" json:"status"`
	CreatedAt   string `db:"created_at" json:"created_at"`
}

// IssuanceStatus tells whether a credential is a real signed artifact.
type IssuanceStatus string

const (
	// IssuancePending marks a record whose payload and hash are placeholders;
	// nothing has been signed or encrypted yet.
	IssuancePending IssuanceStatus = "pending"
)

type Credential struct {
	ID               string         `db:"id" json:"id"`
	SubjectUserID    string         `db:"subject_user_id" json:"subject_user_id"`
	IssuerUserID     string         `db:"issuer_user_id" json:"issuer_user_id"`
	Type             string         `db:"type" json:"type"`
	EncryptedPayload string         `db:"encrypted_payload" json:"encrypted_payload"`
	Hash             string         `db:"hash" json:"hash"`
	Status           IssuanceStatus `db:"status" json:"status"`
	ExpiresAt        *string        `db:"expires_at" json:"expires_at"`
	CreatedAt        string         `db:"created_at" json:"created_at"`
}

type Certificate struct {
	ID        string  `db:"id" json:"id"`
	Title     string  `db:"title" json:"title"`
	TokenID   *string `db:"token_id" json:"token_id"`
	ClaimedBy *string `db:"claimed_by" json:"claimed_by"`
	IsClaimed bool    `db:"is_claimed" json:"is_claimed"`
	CreatedAt string  `db:"created_at" json:"created_at"`
}
