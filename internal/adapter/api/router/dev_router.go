package router

import (
	"github.com/gas1730-arch/oi-market/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

// SetupDevRouter exposes token helpers only when running in development with
// dev tokens enabled.
func SetupDevRouter(e *echo.Echo, environment, authDriver string) {
	if environment != "development" || authDriver != "dev" {
		return
	}
	devTokenHandler := handler.NewDevTokenHandler()

	e.GET("/_dev/token/:uid", devTokenHandler.GenerateToken)
}
