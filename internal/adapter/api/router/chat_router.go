package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/handler"
	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/infrastructure/ratelimit"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter ratelimit.Limiter) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)
	chats.Use(middleware.UserActionRateLimit(limiter, ratelimit.ActionRequestChat))

	chats.POST("", chatHandler.RequestChat) // POST /v1/chats - open or reuse the room for an item
}
