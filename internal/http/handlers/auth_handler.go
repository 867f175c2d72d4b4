package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"safehire/internal/log"
	"safehire/internal/services"
	"safehire/internal/validate"
)

// AuthHandler serves the local sign-in form used with IDENTITY_MODE=local.
type AuthHandler struct {
	Auth   *services.AuthService
	Cookie string
	Secure bool
}

func (h *AuthHandler) ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(h.Cookie)
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     h.Cookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   h.Secure,
		})
	}
	return sid
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) fail(c *fiber.Ctx, fields map[string]any) error {
	c.Status(fiber.StatusUnauthorized)
	log.Security(c, "auth.login.fail", fields)
	return render(c, "login", fiber.Map{"Err": "Invalid email or password"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	email := c.FormValue("email")
	pass := c.FormValue("password")
	if _, ok := validate.Email(email); !ok {
		return h.fail(c, map[string]any{"email": email, "reason": "bad_format"})
	}
	if !validate.Password(pass) {
		return h.fail(c, map[string]any{"email": email, "reason": "bad_password_format"})
	}

	if _, err := h.Auth.Login(c.UserContext(), sid, email, pass); err != nil {
		return h.fail(c, map[string]any{"email": email})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect("/")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := h.ensureSID(c)
	_ = h.Auth.Logout(c.UserContext(), sid)
	c.Cookie(&fiber.Cookie{
		Name:     h.Cookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.Secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/login")
}
