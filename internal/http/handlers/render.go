package handlers

import "github.com/gofiber/fiber/v2"

// render adds the signed-in user, their profile and the CSRF token to data.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals(localUser); u != nil {
		data["User"] = u
	}
	if p := c.Locals(localProfile); p != nil {
		data["Profile"] = p
	}
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Locals is empty on routes outside the csrf group.
		tok = c.Cookies(CSRFCookie)
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// CSRFCookie is shared by the csrf middleware and render.
const CSRFCookie = "csrf_"
