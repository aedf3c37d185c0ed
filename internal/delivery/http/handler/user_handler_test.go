package handler_test

import (
	"encoding/json"
	"testing"

	"skill-eval/internal/delivery/http/handler"
	v1 "skill-eval/internal/delivery/http/routes/v1"
	"skill-eval/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

func TestUserHandler_MeRoundTrip(t *testing.T) {
	uc := &fakeUserUC{usr: user.User{ID: testUserID, Email: "ada@example.com", Name: "Ada", Role: user.RoleUser}}
	app := newTestApp(v1.Deps{Users: handler.NewUserHandler(uc)})

	resp, env := do(t, app, request{method: "PATCH", path: "/api/v1/users/me", role: "USER", body: map[string]any{"name": "Ada L."}})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%+v)", resp.StatusCode, env.Error)
	}

	resp, env = do(t, app, request{method: "GET", path: "/api/v1/users/me", role: "USER"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Ada L." || got.Role != "USER" {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestUserHandler_UpdateMe_Empty(t *testing.T) {
	app := newTestApp(v1.Deps{Users: handler.NewUserHandler(&fakeUserUC{})})

	resp, env := do(t, app, request{method: "PATCH", path: "/api/v1/users/me", role: "USER", body: map[string]any{}})
	expectError(t, resp, env, fiber.StatusBadRequest, "BAD_REQUEST")
}
