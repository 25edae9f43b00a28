// Package http assembles the gin engine for the admin dashboard API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authhandlers "helpdesk/internal/interfaces/http/handlers/auth"
	tickethandlers "helpdesk/internal/interfaces/http/handlers/ticket"
	userhandlers "helpdesk/internal/interfaces/http/handlers/user"
	"helpdesk/internal/interfaces/http/middleware"
	"helpdesk/internal/interfaces/http/routes"
	"helpdesk/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	authHandler    *authhandlers.AuthHandler
	ticketHandler  *tickethandlers.TicketHandler
	userHandler    *userhandlers.UserHandler
	authMiddleware *middleware.AuthMiddleware
	logger         logger.Interface
}

// RouterConfig carries the pre-wired handlers and middleware. The server
// command builds these because the use cases behind them are shared with
// the Telegram transport.
type RouterConfig struct {
	AuthHandler    *authhandlers.AuthHandler
	TicketHandler  *tickethandlers.TicketHandler
	UserHandler    *userhandlers.UserHandler
	AuthMiddleware *middleware.AuthMiddleware
	Logger         logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(cfg *RouterConfig) *Router {
	return &Router{
		engine:         gin.New(),
		authHandler:    cfg.AuthHandler,
		ticketHandler:  cfg.TicketHandler,
		userHandler:    cfg.UserHandler,
		authMiddleware: cfg.AuthMiddleware,
		logger:         cfg.Logger,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.RequestLogger(r.logger))
	r.engine.Use(middleware.Recovery(r.logger))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler: r.authHandler,
	})

	routes.SetupTicketRoutes(r.engine, &routes.TicketRouteConfig{
		TicketHandler:  r.ticketHandler,
		AuthMiddleware: r.authMiddleware,
	})

	routes.SetupUserRoutes(r.engine, &routes.UserRouteConfig{
		UserHandler:    r.userHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
