package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"safehire/internal/domain"
	"safehire/internal/identity"
	applog "safehire/internal/log"
	"safehire/internal/policy"
	"safehire/internal/repos"
)

const (
	localUser    = "user"
	localProfile = "profile"
	localAuthErr = "auth_err"
)

// Datastore attaches a fresh repos.Session to every request's context.
func Datastore(db *sqlx.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.SetUserContext(repos.WithSession(c.UserContext(), repos.NewSession(db)))
		return c.Next()
	}
}

func session(c *fiber.Ctx) (*repos.Session, error) {
	s := repos.SessionFrom(c.UserContext())
	if s == nil {
		return nil, errors.New("no datastore session on request")
	}
	return s, nil
}

// Authenticator resolves the caller through an identity.Provider. An explicit
// Bearer header is tried before the session cookie.
type Authenticator struct {
	IDP      identity.Provider
	Cookie   string
	LoginURL string
}

func (a *Authenticator) tokens(c *fiber.Ctx) []string {
	var out []string
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		if tok := strings.TrimSpace(h[7:]); tok != "" {
			out = append(out, tok)
		}
	}
	if tok := c.Cookies(a.Cookie); tok != "" {
		out = append(out, tok)
	}
	return out
}

// resolve asks the provider at most once per credential per request. The
// first credential that resolves wins, so a stale cookie cannot mask a
// valid header.
func (a *Authenticator) resolve(c *fiber.Ctx) (*domain.User, error) {
	if u, ok := c.Locals(localUser).(*domain.User); ok && u != nil {
		return u, nil
	}
	if err, ok := c.Locals(localAuthErr).(error); ok {
		return nil, err
	}
	err := identity.ErrUnauthenticated
	for _, tok := range a.tokens(c) {
		u, e := a.IDP.CurrentUser(c.UserContext(), tok)
		if e == nil && u != nil {
			c.Locals(localUser, u)
			return u, nil
		}
		if e == nil {
			e = identity.ErrUnauthenticated
		}
		err = e
		if errors.Is(e, identity.ErrNotConfigured) {
			break
		}
	}
	c.Locals(localAuthErr, err)
	return nil, err
}

// Attach resolves the caller when possible so page templates and logs can
// see it. It never rejects a request. JSON routes skip it and resolve only
// behind RequireUser.
func (a *Authenticator) Attach() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := a.resolve(c); err != nil && !errors.Is(err, identity.ErrUnauthenticated) {
			applog.Error(c, "auth.resolve", err, nil)
		}
		return c.Next()
	}
}

// RequireUser guards JSON endpoints. Failures answer 401 and reach no data.
func (a *Authenticator) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, err := a.resolve(c)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, identity.ErrNotConfigured):
			c.Status(fiber.StatusInternalServerError)
			applog.Error(c, "auth.not_configured", err, nil)
			return c.JSON(fiber.Map{"error": "Auth not configured"})
		default:
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.api", map[string]any{"reason": "unauthenticated"})
			return c.JSON(fiber.Map{"error": "Unauthorized"})
		}
	}
}

// RequireRole runs after RequireUser and checks the caller's profile role.
func (a *Authenticator) RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, _ := c.Locals(localUser).(*domain.User)
		s, err := session(c)
		if err != nil {
			return err
		}
		p, err := profileOf(c, s, u)
		if err != nil {
			return err
		}
		d := policy.Authorize(u, p, role)
		if !d.Allowed() {
			c.Status(fiber.StatusForbidden)
			applog.Security(c, "access.denied.api", map[string]any{"required": string(role), "decision": d.String()})
			return c.JSON(fiber.Map{"error": "Forbidden"})
		}
		c.Locals(localProfile, p)
		return c.Next()
	}
}

// RequirePage guards server-rendered pages. Denials become redirects: to the
// login URL, to role onboarding, or to the caller's own dashboard.
func (a *Authenticator) RequirePage(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := a.resolve(c)
		if err != nil {
			if !errors.Is(err, identity.ErrUnauthenticated) {
				applog.Error(c, "auth.resolve", err, nil)
			}
			c.Status(fiber.StatusFound)
			applog.Security(c, "access.denied.page", map[string]any{"reason": "unauthenticated"})
			return c.Redirect(a.LoginURL)
		}
		s, err := session(c)
		if err != nil {
			return err
		}
		p, err := profileOf(c, s, u)
		if err != nil {
			return err
		}
		d := policy.Authorize(u, p, role)
		switch d.Outcome {
		case policy.Allow:
			c.Locals(localProfile, p)
			return c.Next()
		case policy.DenyUnauthenticated:
			c.Status(fiber.StatusFound)
			applog.Security(c, "access.denied.page", map[string]any{"reason": d.String()})
			return c.Redirect(a.LoginURL)
		case policy.DenyRoleUnset:
			return c.Redirect(domain.Role("").DashboardPath())
		default:
			c.Status(fiber.StatusFound)
			applog.Security(c, "access.denied.page", map[string]any{"required": string(role), "decision": d.String()})
			return c.Redirect(d.Role.DashboardPath())
		}
	}
}

// profileOf returns nil for a user without a profile row.
func profileOf(c *fiber.Ctx, s *repos.Session, u *domain.User) (*domain.Profile, error) {
	if u == nil {
		return nil, nil
	}
	p, err := s.Profiles.ByUser(c.UserContext(), u.ID)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, nil
	}
	return p, err
}
