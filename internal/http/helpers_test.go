package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"safehire/internal/config"
	"safehire/internal/identity"
	applog "safehire/internal/log"
	"safehire/internal/repos"
	"safehire/internal/server"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		DBDriver: "sqlite",
		Identity: config.IdentityConfig{
			Mode:          "jwt",
			JWTSecret:     testSecret,
			SessionCookie: "sid",
			LoginURL:      "/login",
		},
		Registry: config.RegistryConfig{APIKey: "test-key", Timeout: 2 * time.Second},
	}
}

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", filepath.Join(t.TempDir(), "http.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newApp builds the real server in JWT mode with limiters off.
func newApp(t *testing.T, cfg config.Config) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db := openDB(t)
	app := server.NewWithOptions(cfg, db, server.Options{})
	return app, db
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := identity.IssueToken(testSecret, userID, userID+"@safehire.test", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func request(method, path, body, tok string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: tok})
	}
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
	return m
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	UserID string         `json:"user_id"`
	Status int            `json:"status"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuf) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

// captureLogs points the app logger at a buffer for the duration of fn.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.Setup(buf, "debug")
	defer applog.Setup(os.Stdout, "info")

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) *logEntry {
	for i := range entries {
		if entries[i].Action == action {
			return &entries[i]
		}
	}
	return nil
}
