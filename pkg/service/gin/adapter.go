// Package gin adapts the validation service to a Gin engine.
package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/harriteja/dict-go-sdk/pkg/service"
)

// Adapter provides a Gin adapter for the validation service
type Adapter struct {
	svc *service.Service
}

// New creates a new Gin adapter
func New(svc *service.Service) *Adapter {
	return &Adapter{svc: svc}
}

// Handler returns a Gin handler function serving the validation routes
func (a *Adapter) Handler() gin.HandlerFunc {
	handler := a.svc.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// RegisterRoutes registers the validation routes with a Gin engine
func (a *Adapter) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	r.POST("/v1/validate", a.Handler())
	r.GET("/metrics", a.Handler())
}
