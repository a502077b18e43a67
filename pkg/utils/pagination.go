package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetLimitParam reads the "limit" query parameter, falling back to
// defaultLimit when it is missing, malformed or above maxLimit.
func GetLimitParam(c echo.Context, defaultLimit, maxLimit int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		return defaultLimit
	}
	return limit
}
