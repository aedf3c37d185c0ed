package v1

import (
	"skill-eval/internal/delivery/http/handler"
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

// Deps carries everything the v1 surface mounts. Nil handlers are skipped.
type Deps struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Categories  *handler.CategoryHandler
	Skills      *handler.SkillHandler
	Assessments *handler.AssessmentHandler
	Analytics   *handler.AnalyticsHandler
	System      *handler.SystemHandler
	WS          fiber.Handler

	AuthMiddleware fiber.Handler
	AuthLimiter    fiber.Handler
	APILimiter     fiber.Handler
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	if d.System != nil {
		r.Get("/health", d.System.Health)
		r.Get("/status", d.System.Status)
	}

	if d.Auth != nil {
		d.Auth.RegisterRoutes(r.Group("/auth", orNext(d.AuthLimiter)))
	}

	// Each protected prefix gets its own group so unknown paths under the
	// version root still fall through to the 404 handler.
	protected := func(prefix string) fiber.Router {
		return r.Group(prefix, orNext(d.AuthMiddleware), orNext(d.APILimiter))
	}

	if d.Users != nil {
		d.Users.RegisterRoutes(protected("/users"))
	}
	if d.Categories != nil {
		d.Categories.RegisterRoutes(protected("/categories"))
	}
	if d.Skills != nil {
		d.Skills.RegisterRoutes(protected("/skills"))
	}
	if d.Assessments != nil {
		d.Assessments.RegisterRoutes(protected("/assessments"))
	}
	if d.Analytics != nil {
		d.Analytics.RegisterRoutes(protected("/analytics"))
	}
	if d.System != nil {
		protected("/metrics").Get("/", middleware.RequireRole(string(user.RoleAdmin)), d.System.Metrics)
	}
	if d.WS != nil {
		protected("/ws").Get("/", d.WS)
	}
}

func orNext(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c fiber.Ctx) error { return c.Next() }
}
