package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"safehire/internal/domain"
	applog "safehire/internal/log"
	"safehire/internal/services"
)

type ProfileHandler struct{}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(localUser).(*domain.User)
	return u
}

func (h *ProfileHandler) svc(c *fiber.Ctx) (*services.ProfileService, error) {
	s, err := session(c)
	if err != nil {
		return nil, err
	}
	return services.NewProfileService(s.Profiles), nil
}

// Mine returns the caller's profile row, or {} when there is none.
func (h *ProfileHandler) Mine(c *fiber.Ctx) error {
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	p, err := svc.Get(c.UserContext(), currentUser(c).ID)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "profile.get", err, nil)
		return c.JSON(fiber.Map{"error": "Failed to load profile"})
	}
	if p == nil {
		return c.JSON(fiber.Map{})
	}
	return c.JSON(p)
}

// Summary is the flattened view used by client dashboards.
func (h *ProfileHandler) Summary(c *fiber.Ctx) error {
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	u := currentUser(c)
	p, err := svc.Get(c.UserContext(), u.ID)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "profile.get", err, nil)
		return c.JSON(fiber.Map{"error": "Failed to load profile"})
	}
	out := fiber.Map{
		"user_id":          u.ID,
		"email":            u.Email,
		"role":             nil,
		"safe_hire_id":     nil,
		"aadhaar_verified": false,
	}
	if p != nil {
		out["role"] = p.Role
		out["safe_hire_id"] = p.SafeHireID
		out["aadhaar_verified"] = p.AadhaarVerified
		if p.Email != nil && *p.Email != "" {
			out["email"] = *p.Email
		}
	}
	return c.JSON(out)
}

type roleBody struct {
	Role string `json:"role" form:"role"`
}

func (h *ProfileHandler) SetRole(c *fiber.Ctx) error {
	var body roleBody
	if err := c.BodyParser(&body); err != nil {
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, "profile.set_role.bad_body", nil)
		return c.JSON(fiber.Map{"success": false, "error": "Invalid role"})
	}
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	role, err := svc.SetRole(c.UserContext(), currentUser(c), body.Role)
	if errors.Is(err, services.ErrInvalidRole) {
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, "profile.set_role.invalid", map[string]any{"role": body.Role})
		return c.JSON(fiber.Map{"success": false, "error": "Invalid role"})
	}
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "profile.set_role", err, nil)
		return c.JSON(fiber.Map{"success": false, "error": "Failed to save role"})
	}
	applog.Audit(c, "profile.set_role", map[string]any{"role": string(role)})
	return c.JSON(fiber.Map{"success": true, "role": role})
}

func (h *ProfileHandler) EnsureSafeID(c *fiber.Ctx) error {
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	id, created, err := svc.EnsureSafeID(c.UserContext(), currentUser(c))
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "profile.ensure_safe_id", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to assign Safe Hire ID"})
	}
	if created {
		applog.Audit(c, "profile.safe_id.created", map[string]any{"safe_hire_id": id})
	}
	return c.JSON(fiber.Map{"ok": true, "safe_hire_id": id})
}

func (h *ProfileHandler) MarkEmployer(c *fiber.Ctx) error {
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	if err := svc.MarkEmployer(c.UserContext(), currentUser(c)); err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "profile.mark_employer", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to update role"})
	}
	applog.Audit(c, "profile.mark_employer", nil)
	return c.JSON(fiber.Map{"ok": true})
}
