package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
)

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()

	var m map[string]any
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestSuccess_Envelope(t *testing.T) {
	now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600)) }
	t.Cleanup(func() { now = time.Now })

	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Created(c, fiber.Map{"id": "1"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	m := decode(t, resp.Body)
	if m["success"] != true {
		t.Fatalf("expected success=true, got %v", m["success"])
	}
	if m["timestamp"] != "2024-03-01T11:00:00Z" {
		t.Fatalf("unexpected timestamp %v", m["timestamp"])
	}
	if _, ok := m["error"]; ok {
		t.Fatalf("error key must be omitted on success")
	}
}

func TestError_DefaultsFromStatus(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return Error(c, fiber.StatusNotFound, "", "", nil)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	m := decode(t, resp.Body)
	if m["success"] != false {
		t.Fatalf("expected success=false")
	}
	e, _ := m["error"].(map[string]any)
	if e["code"] != CodeNotFound || e["message"] != "not found" {
		t.Fatalf("unexpected error body %v", e)
	}
}

func TestCodeForStatus(t *testing.T) {
	cases := map[int]string{
		400: CodeBadRequest,
		401: CodeUnauthorized,
		403: CodeForbidden,
		409: CodeConflict,
		422: CodeValidation,
		429: CodeRateLimited,
		502: CodeInternal,
		418: CodeBadRequest,
	}
	for status, want := range cases {
		if got := CodeForStatus(status); got != want {
			t.Fatalf("status %d: expected %s, got %s", status, want, got)
		}
	}
}
