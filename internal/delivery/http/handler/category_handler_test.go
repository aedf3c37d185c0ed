package handler_test

import (
	"testing"

	"skill-eval/internal/delivery/http/handler"
	v1 "skill-eval/internal/delivery/http/routes/v1"
	"skill-eval/internal/domain/skill"
	"skill-eval/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func TestCategoryHandler_CreateOpenToUsers(t *testing.T) {
	uc := &fakeCategoryUC{}
	app := newTestApp(v1.Deps{Categories: handler.NewCategoryHandler(uc)})

	resp, env := do(t, app, request{
		method: "POST",
		path:   "/api/v1/categories",
		role:   "USER",
		body:   map[string]any{"name": "Observability", "color": "#12ab9f"},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d (%+v)", resp.StatusCode, env.Error)
	}

	resp, env = do(t, app, request{
		method: "POST",
		path:   "/api/v1/categories",
		role:   "USER",
		body:   map[string]any{"name": "Bad", "color": "teal"},
	})
	expectError(t, resp, env, fiber.StatusBadRequest, "VALIDATION_ERROR")
	if _, ok := env.Error.Details["color"]; !ok {
		t.Fatalf("expected color detail, got %v", env.Error.Details)
	}
}

func TestCategoryHandler_DeleteIsAdminOnly(t *testing.T) {
	cat := skill.Category{ID: uuid.New(), Name: "Cloud", Slug: "cloud"}
	uc := &fakeCategoryUC{cats: []skill.Category{cat}}
	app := newTestApp(v1.Deps{Categories: handler.NewCategoryHandler(uc)})
	path := "/api/v1/categories/" + cat.ID.String()

	resp, env := do(t, app, request{method: "DELETE", path: path, role: "USER"})
	expectError(t, resp, env, fiber.StatusForbidden, "FORBIDDEN")
	if len(uc.deleted) != 0 {
		t.Fatalf("handler must not run for non-admins")
	}

	resp, env = do(t, app, request{method: "DELETE", path: path, role: "ADMIN"})
	if resp.StatusCode != fiber.StatusOK || !env.Success {
		t.Fatalf("expected 200, got %d (%+v)", resp.StatusCode, env.Error)
	}
	if len(uc.deleted) != 1 || uc.deleted[0] != cat.ID {
		t.Fatalf("unexpected deletes %v", uc.deleted)
	}
}

func TestCategoryHandler_DeleteInUse(t *testing.T) {
	uc := &fakeCategoryUC{deleteErr: usecase.ErrCategoryInUse}
	app := newTestApp(v1.Deps{Categories: handler.NewCategoryHandler(uc)})

	resp, env := do(t, app, request{method: "DELETE", path: "/api/v1/categories/" + uuid.NewString(), role: "ADMIN"})
	expectError(t, resp, env, fiber.StatusConflict, "CONFLICT")
}

func TestCategoryHandler_GetNotFound(t *testing.T) {
	app := newTestApp(v1.Deps{Categories: handler.NewCategoryHandler(&fakeCategoryUC{})})

	resp, env := do(t, app, request{method: "GET", path: "/api/v1/categories/" + uuid.NewString(), role: "USER"})
	expectError(t, resp, env, fiber.StatusNotFound, "NOT_FOUND")
}
