package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"safehire/internal/domain"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	// Corporate Identification Number, e.g. U72900KA2015PTC082988.
	reCIN = regexp.MustCompile(`^[LU][0-9]{5}[A-Z]{2}[0-9]{4}[A-Z]{3}[0-9]{6}$`)
	// Permanent Account Number, e.g. AAACB1234C.
	rePAN = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// MaxCredentialType bounds a credential type in characters, not bytes.
const MaxCredentialType = 64

// Role accepts only the three assignable roles.
func Role(s string) (domain.Role, bool) {
	r := domain.Role(strings.TrimSpace(s))
	return r, r.Valid()
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// ID validates an opaque row or user identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func CIN(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reCIN.MatchString(s)
}

func PAN(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, rePAN.MatchString(s)
}

// CompanyName trims and bounds a display name.
func CompanyName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, true
}

func JobTitle(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 200 {
		return "", false
	}
	return s, true
}

// CredentialType is free-form text: any non-blank value up to
// MaxCredentialType characters.
func CredentialType(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return s, n > 0 && n <= MaxCredentialType
}

// Password enforces a length window for local login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 72
}
