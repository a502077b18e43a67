package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/handler"
	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
	"github.com/gas1730-arch/oi-market/internal/infrastructure/ratelimit"
)

func SetupBidRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, limiter ratelimit.Limiter) {
	bidHandler := handler.GetBidHandler()

	bids := e.Group("/v1/bids")
	bids.Use(authMiddleware.Authenticate)
	bids.Use(middleware.UserActionRateLimit(limiter, ratelimit.ActionPlaceBid))

	bids.POST("", bidHandler.PlaceBid) // POST /v1/bids - bid or buy now
}
