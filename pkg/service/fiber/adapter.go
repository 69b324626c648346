// Package fiber adapts the validation service to a Fiber app.
package fiber

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/harriteja/dict-go-sdk/pkg/service"
)

// Adapter provides a Fiber adapter for the validation service
type Adapter struct {
	svc *service.Service
}

// New creates a new Fiber adapter
func New(svc *service.Service) *Adapter {
	return &Adapter{svc: svc}
}

// Handler returns a Fiber handler function serving the validation routes
func (a *Adapter) Handler() fiber.Handler {
	return adaptor.HTTPHandler(a.svc.Handler())
}

// RegisterRoutes registers the validation routes with a Fiber app
func (a *Adapter) RegisterRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Post("/v1/validate", a.Handler())
	app.Get("/metrics", a.Handler())
}
