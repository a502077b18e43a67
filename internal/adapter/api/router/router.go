package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/infrastructure/ratelimit"
)

// Setup registers every route. handler.Setup and handler.SetupHealthHandler
// must have run first. limiter may be nil to disable throttling.
func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter ratelimit.Limiter) {
	SetupBidRouter(e, authMiddleware, limiter)
	SetupChatRouter(e, authMiddleware, limiter)
	SetupItemRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
