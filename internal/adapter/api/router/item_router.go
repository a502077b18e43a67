package router

import (
	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/adapter/api/handler"
	"github.com/gas1730-arch/oi-market/internal/adapter/api/middleware"
)

func SetupItemRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	itemHandler := handler.GetItemHandler()

	// Public
	e.GET("/v1/items/:id", itemHandler.GetItem)
	e.GET("/v1/items/:id/bids", itemHandler.ListBids)

	// Seller actions
	items := e.Group("/v1/items")
	items.Use(authMiddleware.Authenticate)
	items.POST("", itemHandler.CreateItem)
	items.POST("/:id/close", itemHandler.CloseAuction)
}
