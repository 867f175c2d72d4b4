package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "safehire/internal/log"
	"safehire/internal/registry"
	"safehire/internal/services"
)

type CompanyHandler struct {
	Registry CompanyLookup
}

func (h *CompanyHandler) svc(c *fiber.Ctx) (*services.CompanyService, error) {
	s, err := session(c)
	if err != nil {
		return nil, err
	}
	return services.NewCompanyService(s.Companies), nil
}

func (h *CompanyHandler) ListMine(c *fiber.Ctx) error {
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	list, err := svc.ListMine(c.UserContext(), currentUser(c).ID)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "company.list_mine", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to load companies"})
	}
	return c.JSON(fiber.Map{"ok": true, "companies": list})
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var in services.NewCompany
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "Invalid body"})
	}
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	co, err := svc.Create(c.UserContext(), currentUser(c).ID, in)
	switch {
	case errors.Is(err, services.ErrInvalidCompanyName),
		errors.Is(err, services.ErrInvalidCIN),
		errors.Is(err, services.ErrInvalidPAN):
		c.Status(fiber.StatusBadRequest)
		applog.Info(c, "company.create.invalid", map[string]any{"reason": err.Error()})
		return c.JSON(fiber.Map{"ok": false, "error": err.Error()})
	case err != nil:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "company.create", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to create company"})
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "company.create", map[string]any{"company_id": co.ID})
	return c.JSON(fiber.Map{"ok": true, "company": co})
}

// Fetch proxies a CIN or PAN lookup to the company registry. Upstream
// rejections are answered with 400 and the upstream body.
func (h *CompanyHandler) Fetch(c *fiber.Ctx) error {
	q := registry.Lookup{CIN: c.Query("cin"), PAN: c.Query("pan")}
	data, err := h.Registry.Fetch(c.UserContext(), q)
	if err == nil {
		return c.JSON(fiber.Map{"ok": true, "data": data})
	}

	var up *registry.UpstreamError
	switch {
	case errors.Is(err, registry.ErrMissingIdentifier):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "message": "Provide ?cin= or ?pan="})
	case errors.Is(err, registry.ErrMissingKey):
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "company.fetch.not_configured", err, nil)
		return c.JSON(fiber.Map{"ok": false, "message": "Registry API key not configured"})
	case errors.As(err, &up):
		c.Status(fiber.StatusBadRequest)
		applog.Info(c, "company.fetch.upstream_rejected", map[string]any{"upstream_status": up.Status})
		return c.JSON(fiber.Map{"ok": false, "source": registry.Source, "error": up.Body})
	default:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "company.fetch.failed", err, nil)
		return c.JSON(fiber.Map{"ok": false, "message": "Registry request failed"})
	}
}
