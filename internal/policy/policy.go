// Package policy decides whether a caller may reach a role-gated resource.
// API handlers and page guards both go through Authorize.
package policy

import "safehire/internal/domain"

type Outcome int

const (
	Allow Outcome = iota
	// DenyUnauthenticated means there is no signed-in user.
	DenyUnauthenticated
	// DenyRoleUnset means the user has not picked a role yet.
	DenyRoleUnset
	// DenyWrongRole means the user holds a different role.
	DenyWrongRole
)

type Decision struct {
	Outcome Outcome
	// Role is the caller's current role, empty when unset.
	Role domain.Role
}

func (d Decision) Allowed() bool { return d.Outcome == Allow }

func (d Decision) String() string {
	switch d.Outcome {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "unauthenticated"
	case DenyRoleUnset:
		return "role_unset"
	default:
		return "wrong_role"
	}
}

// Authorize checks user and profile against required. An empty required role
// only demands a signed-in user.
func Authorize(user *domain.User, profile *domain.Profile, required domain.Role) Decision {
	if user == nil || user.ID == "" {
		return Decision{Outcome: DenyUnauthenticated}
	}
	if profile != nil && profile.UserID != "" && profile.UserID != user.ID {
		return Decision{Outcome: DenyUnauthenticated}
	}
	role := profile.RoleValue()
	if required == "" {
		return Decision{Outcome: Allow, Role: role}
	}
	if role == "" {
		return Decision{Outcome: DenyRoleUnset}
	}
	if role != required {
		return Decision{Outcome: DenyWrongRole, Role: role}
	}
	return Decision{Outcome: Allow, Role: role}
}
