package app

import (
	"fmt"
	"strings"

	"skill-eval/internal/config"
	"skill-eval/internal/delivery/http/handler"
	"skill-eval/internal/delivery/http/middleware"
	"skill-eval/internal/delivery/http/routes"
	v1 "skill-eval/internal/delivery/http/routes/v1"
	"skill-eval/internal/pkg/validate"
	"skill-eval/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(cfg config.Config, c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:         cfg.App.AppName,
		ErrorHandler:    middleware.ErrorHandler,
		StructValidator: validate.New(),
		BodyLimit:       1 << 20,
	})

	registerGlobalMiddleware(f, cfg, c)
	registerRoutes(f, cfg, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap connects every dependency and returns the app together with a
// cleanup that releases them.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	app := New(cfg, c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, c *Container) {
	if app == nil {
		return
	}

	app.Use(helmet.New())
	app.Use(cors.New(corsConfig(cfg)))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, cfg config.Config, c *Container) {
	if app == nil || c == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT, cfg.Cookie.Name)
	authLimiter := middleware.NewRateLimiter(c.Redis, middleware.RateLimitConfig{
		Name:   "auth",
		Limit:  cfg.RateLimit.AuthPerMinute,
		Window: cfg.RateLimit.Window,
	}, c.Logger)
	apiLimiter := middleware.NewRateLimiter(c.Redis, middleware.RateLimitConfig{
		Name:   "api",
		Limit:  cfg.RateLimit.APIPerMinute,
		Window: cfg.RateLimit.Window,
	}, c.Logger)

	wsHandler := ws.NewHandler(c.Hub, cfg.App.CORSOrigins, c.Logger)

	routes.NewRegistry(v1.Deps{
		Auth: handler.NewAuthHandler(c.Auth, handler.AuthCookieConfig{
			Name:        cfg.Cookie.Name,
			Secure:      cfg.Cookie.Secure,
			FrontendURL: cfg.App.FrontendURL,
		}),
		Users:       handler.NewUserHandler(c.Users),
		Categories:  handler.NewCategoryHandler(c.Categories),
		Skills:      handler.NewSkillHandler(c.Skills),
		Assessments: handler.NewAssessmentHandler(c.Assessments),
		Analytics:   handler.NewAnalyticsHandler(c.Analytics),
		System:      handler.NewSystemHandler(c.System),
		WS:          wsHandler.HandleWS,

		AuthMiddleware: authMw.Middleware(),
		AuthLimiter:    authLimiter.Middleware(),
		APILimiter:     apiLimiter.Middleware(),
	}).Register(app)
}

// corsConfig allows credentials only for an explicit origin list; the
// wildcard default cannot carry cookies.
func corsConfig(cfg config.Config) cors.Config {
	out := cors.Config{
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete, fiber.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
	}
	if len(cfg.App.CORSOrigins) > 0 {
		out.AllowOrigins = cfg.App.CORSOrigins
		out.AllowCredentials = true
	}
	return out
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
