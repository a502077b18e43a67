package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/infrastructure/firebase"
	"github.com/gas1730-arch/oi-market/pkg/errors"
	"github.com/gas1730-arch/oi-market/pkg/response"
)

type DevTokenHandler struct{}

func NewDevTokenHandler() *DevTokenHandler {
	return &DevTokenHandler{}
}

// GenerateToken hands out a dev bearer token for any uid, for local runs
// against AUTH_DRIVER=dev.
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return response.Error(c, errors.Invalid("uid is required", nil))
	}

	token := firebase.DevToken(uid)
	return response.Success(c, map[string]string{
		"uid":           uid,
		"token":         token,
		"authorization": "Bearer " + token,
	})
}
