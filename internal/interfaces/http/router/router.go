package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar is implemented by handlers that register their own routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires handlers into the gin engine under a shared API prefix
type Router struct {
	engine     *gin.Engine
	logger     *zap.Logger
	registrars []RouteRegistrar
}

// NewRouter creates a new router
func NewRouter(engine *gin.Engine, logger *zap.Logger) *Router {
	return &Router{
		engine: engine,
		logger: logger,
	}
}

// Register adds a route registrar
func (r *Router) Register(registrar RouteRegistrar) {
	r.registrars = append(r.registrars, registrar)
}

// Setup mounts all registered routes under /api/v1
func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	r.logger.Info("routes registered", zap.Int("registrars", len(r.registrars)))
}
