// Package server assembles the fiber application: middleware, identity,
// datastore sessions and routes.
package server

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jmoiron/sqlx"

	"safehire/internal/config"
	"safehire/internal/domain"
	"safehire/internal/http/handlers"
	"safehire/internal/identity"
	applog "safehire/internal/log"
	"safehire/internal/registry"
	"safehire/internal/repos"
	"safehire/internal/services"
	"safehire/web"
)

// Options overrides collaborators normally derived from Config.
type Options struct {
	Identity identity.Provider
	Registry handlers.CompanyLookup
	// AccessLog writes fiber's access log line per request when true.
	AccessLog bool
	// Limits disables the rate limiters when false.
	Limits bool
}

// DefaultOptions are used by New.
func DefaultOptions() Options { return Options{AccessLog: true, Limits: true} }

func New(cfg config.Config, db *sqlx.DB) *fiber.App {
	return NewWithOptions(cfg, db, DefaultOptions())
}

// Provider picks the identity provider named by cfg.Identity.Mode.
func Provider(cfg config.Config, db *sqlx.DB) identity.Provider {
	switch cfg.Identity.Mode {
	case "remote":
		return identity.NewRemoteProvider(cfg.Identity.URL, cfg.Identity.PublicKey, 10*time.Second)
	case "jwt":
		return identity.NewJWTProvider(cfg.Identity.JWTSecret)
	default:
		return &services.AuthService{Users: repos.NewUserRepo(db)}
	}
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// errorHandler answers anything unhandled with a generic 500. Internal
// details only reach the log.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
	}
	c.Status(code)
	if code >= 500 {
		applog.Error(c, "server.error", err, nil)
	}
	msg := "Something went wrong. Please try again."
	if code < 500 {
		msg = statusText(code)
	}
	if isAPI(c) {
		body := fiber.Map{"error": "internal error"}
		if code < 500 {
			body["error"] = msg
		}
		return c.Status(code).JSON(body)
	}
	if rerr := c.Status(code).Render("error", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func statusText(code int) string {
	if m := utils.StatusMessage(code); m != "" {
		return m
	}
	return "Request failed"
}

func NewWithOptions(cfg config.Config, db *sqlx.DB, opts Options) *fiber.App {
	idp := opts.Identity
	if idp == nil {
		idp = Provider(cfg, db)
	}
	lookup := opts.Registry
	if lookup == nil {
		lookup = registry.New(cfg.Registry.BaseURL, cfg.Registry.APIKey, cfg.Registry.Timeout)
	}

	app := fiber.New(fiber.Config{
		Views:        web.Engine(),
		ErrorHandler: errorHandler,
		BodyLimit:    1 << 20,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	if opts.Limits {
		app.Use(limiter.New(limiter.Config{
			Max:        120,
			Expiration: time.Minute,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz"
			},
			LimitReached: func(c *fiber.Ctx) error {
				c.Status(fiber.StatusTooManyRequests)
				applog.Security(c, "rate.global.hit", nil)
				return c.JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			},
		}))
	}
	app.Use(handlers.Datastore(db))

	auth := &handlers.Authenticator{IDP: idp, Cookie: cfg.Identity.SessionCookie, LoginURL: cfg.Identity.LoginURL}

	deps := handlers.NewDeps(lookup)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	// ---------- JSON API ----------
	api := app.Group("/api")
	user := auth.RequireUser()

	fetchLimit := func(c *fiber.Ctx) error { return c.Next() }
	if opts.Limits {
		fetchLimit = limiter.New(limiter.Config{
			Max:        20,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP() + "|company.fetch"
			},
			LimitReached: func(c *fiber.Ctx) error {
				c.Status(fiber.StatusTooManyRequests)
				applog.Security(c, "rate.company_fetch.hit", nil)
				return c.JSON(fiber.Map{"ok": false, "message": "rate limit exceeded, retry soon"})
			},
		})
	}
	api.Get("/company/fetch", fetchLimit, deps.Companies.Fetch)
	api.Get("/jobs/list", deps.Jobs.List)

	api.Get("/me/profile", user, deps.Profiles.Mine)
	api.Get("/profile/me", user, deps.Profiles.Summary)
	api.Post("/profile/set-role", user, deps.Profiles.SetRole)
	api.Post("/profile/ensure-safe-id", user, deps.Profiles.EnsureSafeID)
	api.Post("/profile/mark-employer", user, deps.Profiles.MarkEmployer)

	api.Get("/me/companies", user, deps.Companies.ListMine)
	api.Post("/me/companies", user, auth.RequireRole(domain.RoleEmployerAdmin), deps.Companies.Create)
	api.Post("/jobs", user, auth.RequireRole(domain.RoleEmployerAdmin), deps.Jobs.Create)

	api.Post("/credentials/issue", user, deps.Credentials.Issue)
	api.Get("/certificates/nft", user, deps.Certificates.NFT)

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	})

	// ---------- Pages ----------
	forms := csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     handlers.CSRFCookie,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSec,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			c.Status(fiber.StatusForbidden)
			applog.Security(c, "csrf.fail", nil)
			return c.Render("error", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	})
	exposeToken := func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	}
	pages := app.Group("", forms, exposeToken, auth.Attach())

	if cfg.Identity.Mode == "local" {
		local, _ := idp.(*services.AuthService)
		if local == nil {
			local = &services.AuthService{Users: repos.NewUserRepo(db)}
		}
		authH := &handlers.AuthHandler{Auth: local, Cookie: cfg.Identity.SessionCookie, Secure: cfg.CookieSec}
		loginLimit := func(c *fiber.Ctx) error { return c.Next() }
		if opts.Limits {
			loginLimit = limiter.New(limiter.Config{
				Max:        5,
				Expiration: 10 * time.Minute,
				LimitReached: func(c *fiber.Ctx) error {
					c.Status(fiber.StatusTooManyRequests)
					applog.Security(c, "rate.login.hit", nil)
					return c.Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
				},
			})
		}
		pages.Get("/login", authH.LoginForm)
		pages.Post("/login", loginLimit, authH.Login)
		pages.Post("/logout", authH.Logout)
	}

	anyRole := auth.RequirePage("")
	pages.Get("/", anyRole, deps.Pages.Home)
	pages.Get("/onboarding/role", anyRole, deps.Pages.RoleForm)
	pages.Post("/onboarding/role", anyRole, deps.Pages.ChooseRole)

	seeker := auth.RequirePage(domain.RoleJobSeeker)
	pages.Get("/dashboard/employee", seeker, deps.Pages.Employee)
	pages.Post("/onboarding/safe-id", seeker, deps.Pages.EnsureSafeID)

	employer := auth.RequirePage(domain.RoleEmployerAdmin)
	pages.Get("/dashboard/employer", employer, deps.Pages.Employer)
	pages.Post("/onboarding/company", employer, deps.Pages.CreateCompany)

	pages.Get("/dashboard/institution", auth.RequirePage(domain.RoleInstitution), deps.Pages.Institution)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("error", fiber.Map{"Title": "Not found", "Message": "Page not found"})
	})
	return app
}
