package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "safehire/internal/log"
	"safehire/internal/services"
	"safehire/internal/validate"
)

type CertificateHandler struct{}

// NFT lists claimed certificates of ?user_id=, defaulting to the caller.
func (h *CertificateHandler) NFT(c *fiber.Ctx) error {
	target := currentUser(c).ID
	if raw := c.Query("user_id"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid user_id"})
		}
		target = id
	}
	s, err := session(c)
	if err != nil {
		return err
	}
	certs, err := services.NewCertificateService(s.Certificates).ListClaimed(c.UserContext(), target)
	if err != nil {
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, "certificates.list", err, nil)
		return c.JSON(fiber.Map{"success": false, "error": "Failed to load certificates"})
	}
	return c.JSON(fiber.Map{"success": true, "certificates": certs})
}
