package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"safehire/internal/domain"
	applog "safehire/internal/log"
	"safehire/internal/services"
)

// PageHandler renders the server-side pages. Every route is behind
// Authenticator.RequirePage, so user and profile are in Locals.
type PageHandler struct{}

func currentProfile(c *fiber.Ctx) *domain.Profile {
	p, _ := c.Locals(localProfile).(*domain.Profile)
	return p
}

func (h *PageHandler) Home(c *fiber.Ctx) error {
	return c.Redirect(currentProfile(c).RoleValue().DashboardPath())
}

func (h *PageHandler) RoleForm(c *fiber.Ctx) error {
	return render(c, "onboarding_role", fiber.Map{"Roles": domain.Roles})
}

func (h *PageHandler) ChooseRole(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	raw := c.FormValue("role")
	role, err := services.NewProfileService(s.Profiles).SetRole(c.UserContext(), currentUser(c), raw)
	if errors.Is(err, services.ErrInvalidRole) {
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, "profile.set_role.invalid", map[string]any{"role": raw})
		return render(c, "onboarding_role", fiber.Map{"Roles": domain.Roles, "Err": "Please pick one of the listed roles."})
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "profile.set_role", map[string]any{"role": string(role)})
	return c.Redirect(role.DashboardPath())
}

// Employee shows onboarding until aadhaar is verified and a safe id exists.
func (h *PageHandler) Employee(c *fiber.Ctx) error {
	p := currentProfile(c)
	if !p.Onboarded() {
		return render(c, "onboarding_employee", fiber.Map{
			"HasSafeID":       p.SafeID() != "",
			"AadhaarVerified": p.AadhaarVerified,
		})
	}
	s, err := session(c)
	if err != nil {
		return err
	}
	ctx := c.UserContext()
	jobs, err := services.NewJobService(s.Jobs, s.Companies).ListOpen(ctx)
	if err != nil {
		return err
	}
	certs, err := services.NewCertificateService(s.Certificates).ListClaimed(ctx, p.UserID)
	if err != nil {
		return err
	}
	creds, err := services.NewCredentialService(s.Credentials).ListFor(ctx, p.UserID)
	if err != nil {
		return err
	}
	return render(c, "dashboard_employee", fiber.Map{"Jobs": jobs, "Certificates": certs, "Credentials": creds})
}

func (h *PageHandler) EnsureSafeID(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	id, created, err := services.NewProfileService(s.Profiles).EnsureSafeID(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}
	if created {
		applog.Audit(c, "profile.safe_id.created", map[string]any{"safe_hire_id": id})
	}
	return c.Redirect("/dashboard/employee")
}

// Employer shows onboarding until the caller owns a company.
func (h *PageHandler) Employer(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	companies, err := services.NewCompanyService(s.Companies).ListMine(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		return render(c, "onboarding_employer", nil)
	}
	return render(c, "dashboard_employer", fiber.Map{"Companies": companies})
}

func (h *PageHandler) CreateCompany(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	in := services.NewCompany{Name: c.FormValue("name"), CIN: c.FormValue("cin"), PAN: c.FormValue("pan")}
	co, err := services.NewCompanyService(s.Companies).Create(c.UserContext(), currentUser(c).ID, in)
	if errors.Is(err, services.ErrInvalidCompanyName) || errors.Is(err, services.ErrInvalidCIN) || errors.Is(err, services.ErrInvalidPAN) {
		c.Status(fiber.StatusBadRequest)
		return render(c, "onboarding_employer", fiber.Map{"Err": "Check the company details and try again."})
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "company.create", map[string]any{"company_id": co.ID})
	return c.Redirect("/dashboard/employer")
}

func (h *PageHandler) Institution(c *fiber.Ctx) error {
	return render(c, "dashboard_institution", nil)
}
