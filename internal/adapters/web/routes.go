package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp creates the Fiber app with the shared middleware chain.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Tweet Feed",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestContextMiddleware())
	app.Use(RequestLoggerMiddleware())
	return app
}

// SetupRoutes configures the application routes. staticDir may be empty
// when no stylesheet is shipped.
func SetupRoutes(app *fiber.App, handlers *Handlers, rateLimiter *RateLimiter, staticDir string) {
	if staticDir != "" {
		app.Static("/static", staticDir)
	}

	app.Get("/healthz", handlers.Healthz)

	// Full page, e.g. /feed?user=janedoe or /feed?feed_type=search&search_term=golang
	limited := rateLimiter.Middleware()
	app.Get("/", limited, handlers.Page)
	app.Get("/feed", limited, handlers.Page)

	// Fragment for embedding in another page
	app.Get("/api/feed", limited, handlers.Fragment)

	// Clearing forces the next render to refetch, so it shares the budget.
	app.Post("/api/feed/cache/clear", limited, handlers.ClearCache)
}
