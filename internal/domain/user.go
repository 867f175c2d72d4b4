package domain

// User is the identity-provider view of a caller. Hash is only populated by
// the local provider.
type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Hash  string `db:"password_hash" json:"-"`
}

type Role string

const (
	RoleJobSeeker     Role = "job_seeker"
	RoleEmployerAdmin Role = "employer_admin"
	RoleInstitution   Role = "institution"
)

// Roles lists every assignable role.
var Roles = []Role{RoleJobSeeker, RoleEmployerAdmin, RoleInstitution}

func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployerAdmin, RoleInstitution:
		return true
	}
	return false
}

// SafeIDPrefix is the role-specific prefix of a generated safe hire id.
func (r Role) SafeIDPrefix() string {
	switch r {
	case RoleEmployerAdmin:
		return "EX"
	case RoleInstitution:
		return "IN"
	default:
		return "JS"
	}
}

// DashboardPath is where a user with this role lands after sign-in.
func (r Role) DashboardPath() string {
	switch r {
	case RoleJobSeeker:
		return "/dashboard/employee"
	case RoleEmployerAdmin:
		return "/dashboard/employer"
	case RoleInstitution:
		return "/dashboard/institution"
	default:
		return "/onboarding/role"
	}
}

type Profile struct {
	UserID          string  `db:"user_id" json:"user_id"`
	Email           *string `db:"email" json:"email"`
	Role            *string `db:"role" json:"role"`
	SafeHireID      *string `db:"safe_hire_id" json:"safe_hire_id"`
	AadhaarVerified bool    `db:"aadhaar_verified" json:"aadhaar_verified"`
	CreatedAt       string  `db:"created_at" json:"created_at"`
	UpdatedAt       string  `db:"updated_at" json:"updated_at"`
}

// RoleValue returns the profile role, or "" when unset.
func (p *Profile) RoleValue() Role {
	if p == nil || p.Role == nil {
		return ""
	}
	return Role(*p.Role)
}

func (p *Profile) SafeID() string {
	if p == nil || p.SafeHireID == nil {
		return ""
	}
	return *p.SafeHireID
}

// Onboarded reports whether a job seeker has finished identity proofing.
func (p *Profile) Onboarded() bool {
	return p != nil && p.AadhaarVerified && p.SafeID() != ""
}
