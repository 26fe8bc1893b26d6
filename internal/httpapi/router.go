package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"github.com/reliefline/server/internal/metrics"
)

// SetupRoutes registers all REST and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Request ID
	app.Use(requestid.New())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Health (fast internal check, no timeout)
	app.Get("/v1/health", HealthHandler(deps))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Post("/profile", CreateProfileHandler(deps))
	v1.Get("/profile", GetProfileHandler(deps))
	v1.Delete("/profile", DeleteProfileHandler(deps))
	v1.Get("/profile/kml", ExportKMLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps)))
}
