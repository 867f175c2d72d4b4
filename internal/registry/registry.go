// Package registry looks up companies in the Gridlines company registry by
// CIN or PAN using the server-held API key.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Source names the upstream in error bodies.
const Source = "gridlines"

var (
	ErrMissingIdentifier = errors.New("registry: cin or pan required")
	ErrMissingKey        = errors.New("registry: api key not configured")
)

// UpstreamError is a non-OK answer from the registry. Body is passed back to
// the caller unchanged.
type UpstreamError struct {
	Status int
	Body   json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d", Source, e.Status)
}

// TransportError means the registry could not be reached.
type TransportError struct{ Err error }

func (e *TransportError) Error() string { return "registry request failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

type Lookup struct {
	CIN string
	PAN string
}

type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, timeout: timeout}
}

// Fetch queries by CIN when present, otherwise by PAN. The upstream JSON is
// returned as-is on success.
func (c *Client) Fetch(_ context.Context, q Lookup) (json.RawMessage, error) {
	cin, pan := strings.TrimSpace(q.CIN), strings.TrimSpace(q.PAN)
	if cin == "" && pan == "" {
		return nil, ErrMissingIdentifier
	}
	if c.apiKey == "" {
		return nil, ErrMissingKey
	}

	path, body := "/pan-api/fetch-detailed", map[string]string{"pan_id": pan, "consent": "Y"}
	if cin != "" {
		path, body = "/mca-api/fetch-company", map[string]string{"company_id": cin, "consent": "Y"}
	}

	a := fiber.Post(c.baseURL + path)
	a.Set("X-API-Key", c.apiKey)
	a.Set("X-Auth-Type", "API-Key")
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.JSON(body)
	a.Timeout(c.timeout)

	code, resp, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, &TransportError{Err: errors.Join(errs...)}
	}
	if code < 200 || code > 299 {
		return nil, &UpstreamError{Status: code, Body: asJSON(resp)}
	}
	return asJSON(resp), nil
}

// asJSON keeps valid JSON bodies and quotes anything else.
func asJSON(b []byte) json.RawMessage {
	if len(b) > 0 && json.Valid(b) {
		return json.RawMessage(append([]byte(nil), b...))
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}
