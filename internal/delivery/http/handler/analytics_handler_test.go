package handler_test

import (
	"testing"

	"skill-eval/internal/delivery/http/handler"
	v1 "skill-eval/internal/delivery/http/routes/v1"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func TestAnalyticsHandler_ProgressDays(t *testing.T) {
	uc := &fakeAnalyticsUC{}
	app := newTestApp(v1.Deps{Analytics: handler.NewAnalyticsHandler(uc)})

	resp, _ := do(t, app, request{method: "GET", path: "/api/v1/analytics/progress", role: "USER"})
	if resp.StatusCode != fiber.StatusOK || uc.days != usecase.DefaultProgressDays {
		t.Fatalf("expected default window, got status=%d days=%d", resp.StatusCode, uc.days)
	}

	resp, _ = do(t, app, request{method: "GET", path: "/api/v1/analytics/progress?days=7", role: "USER"})
	if resp.StatusCode != fiber.StatusOK || uc.days != 7 {
		t.Fatalf("expected 7 days, got status=%d days=%d", resp.StatusCode, uc.days)
	}

	resp, env := do(t, app, request{method: "GET", path: "/api/v1/analytics/progress?days=400", role: "USER"})
	expectError(t, resp, env, fiber.StatusBadRequest, "BAD_REQUEST")

	resp, env = do(t, app, request{method: "GET", path: "/api/v1/analytics/progress?days=week", role: "USER"})
	expectError(t, resp, env, fiber.StatusBadRequest, "VALIDATION_ERROR")
}

func TestAnalyticsHandler_OverviewAndTop(t *testing.T) {
	app := newTestApp(v1.Deps{Analytics: handler.NewAnalyticsHandler(&fakeAnalyticsUC{})})

	for _, path := range []string{"/api/v1/analytics/overview", "/api/v1/analytics/skills/top?limit=3"} {
		resp, env := do(t, app, request{method: "GET", path: path, role: "USER"})
		if resp.StatusCode != fiber.StatusOK || !env.Success {
			t.Fatalf("%s: expected 200, got %d (%+v)", path, resp.StatusCode, env.Error)
		}
	}
}
