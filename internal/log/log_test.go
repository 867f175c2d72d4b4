package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safehire/internal/domain"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestFieldsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info")
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info") })

	app := fiber.New()
	app.Use(requestid.New())
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("user", &domain.User{ID: "u-1"})
		Audit(c, "profile.set_role", map[string]any{"role": "job_seeker"})
		Error(c, "profile.load.fail", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusNoContent)
	})
	_, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	audit := lines[0]
	assert.Equal(t, "profile.set_role", audit["action"])
	assert.Equal(t, "info", audit["level"])
	assert.Equal(t, "u-1", audit["user_id"])
	assert.Equal(t, "/x", audit["path"])
	assert.NotEmpty(t, audit["req_id"])
	assert.NotEmpty(t, audit["ts"])
	fields := audit["fields"].(map[string]any)
	assert.Equal(t, "audit", fields["kind"])
	assert.Equal(t, "job_seeker", fields["role"])

	assert.Equal(t, "error", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["err"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "warn")
	t.Cleanup(func() { Setup(&bytes.Buffer{}, "info") })

	Info(nil, "ignored", nil)
	Security(nil, "access.denied", map[string]any{"reason": "role"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "access.denied", lines[0]["action"])
	assert.Equal(t, "warn", lines[0]["level"])
}
