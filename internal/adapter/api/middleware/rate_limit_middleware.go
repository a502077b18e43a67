package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/gas1730-arch/oi-market/internal/infrastructure/ratelimit"
	"github.com/gas1730-arch/oi-market/pkg/errors"
	"github.com/gas1730-arch/oi-market/pkg/logger"
	"github.com/gas1730-arch/oi-market/pkg/response"
)

// UserActionRateLimit throttles action per authenticated user. It must run
// after Authenticate. A nil limiter disables throttling, and limiter failures
// let the request through.
func UserActionRateLimit(limiter ratelimit.Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}

		return func(c echo.Context) error {
			uid := UID(c)
			if uid == "" {
				return next(c)
			}

			allowed, wait, err := limiter.Allow(c.Request().Context(), uid, action)
			if err != nil {
				logger.Warn("rate limit: %s for %s: %v", action, uid, err)
				return next(c)
			}
			if allowed {
				return next(c)
			}

			secs := int(math.Ceil(wait.Seconds()))
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			logger.Info("rate limit: blocked %s for %s (retry in %ds)", action, uid, secs)

			return response.Error(c, errors.TooManyRequests("Too many requests, slow down").
				WithDetail("retryAfter", secs))
		}
	}
}
