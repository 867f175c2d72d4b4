package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "safehire/internal/log"
	"safehire/internal/repos"
	"safehire/internal/services"
)

type JobHandler struct{}

func (h *JobHandler) svc(c *fiber.Ctx) (*services.JobService, error) {
	s, err := session(c)
	if err != nil {
		return nil, err
	}
	return services.NewJobService(s.Jobs, s.Companies), nil
}

// List returns open jobs only, newest first.
func (h *JobHandler) List(c *fiber.Ctx) error {
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	jobs, err := svc.ListOpen(c.UserContext())
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "jobs.list", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to load jobs"})
	}
	return c.JSON(fiber.Map{"ok": true, "jobs": jobs})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var in services.NewJob
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "Invalid body"})
	}
	svc, err := h.svc(c)
	if err != nil {
		return err
	}
	j, err := svc.Post(c.UserContext(), currentUser(c).ID, in)
	switch {
	case errors.Is(err, services.ErrInvalidJob):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": err.Error()})
	case errors.Is(err, repos.ErrNotFound):
		c.Status(fiber.StatusNotFound)
		applog.Security(c, "jobs.create.foreign_company", map[string]any{"company_id": in.CompanyID})
		return c.JSON(fiber.Map{"ok": false, "error": "Company not found"})
	case err != nil:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "jobs.create", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to create job"})
	}
	c.Status(fiber.StatusCreated)
	applog.Audit(c, "jobs.create", map[string]any{"job_id": j.ID, "company_id": j.CompanyID})
	return c.JSON(fiber.Map{"ok": true, "job": j})
}
