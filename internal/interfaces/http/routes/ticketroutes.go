package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "helpdesk/internal/interfaces/http/handlers/ticket"
	"helpdesk/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// Specific paths go before parameterized ones to avoid route conflicts.
		tickets.GET("/active", config.TicketHandler.ListActive)
		tickets.GET("/closed", config.TicketHandler.ListClosed)

		tickets.GET("/:id/history", config.TicketHandler.GetHistory)
		tickets.POST("/:id/close", config.TicketHandler.Close)
	}
}
