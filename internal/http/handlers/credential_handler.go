package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "safehire/internal/log"
	"safehire/internal/services"
)

type CredentialHandler struct{}

// Issue records a credential request. The stored record is pending until
// real signing exists.
func (h *CredentialHandler) Issue(c *fiber.Ctx) error {
	s, err := session(c)
	if err != nil {
		return err
	}
	svc := services.NewCredentialService(s.Credentials)
	cred, err := svc.Issue(c.UserContext(), currentUser(c), c.Body())
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		applog.Info(c, "credential.issue.invalid", map[string]any{"problems": ve.Problems})
		return c.JSON(fiber.Map{"ok": false, "error": "Invalid credential request", "details": ve.Problems})
	case err != nil:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "credential.issue", err, nil)
		return c.JSON(fiber.Map{"ok": false, "error": "Failed to issue credential"})
	}
	applog.Audit(c, "credential.issue", map[string]any{"credential_id": cred.ID, "subject": cred.SubjectUserID, "status": string(cred.Status)})
	return c.JSON(fiber.Map{"ok": true, "credential": cred})
}
