package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
)

// APIKeyAuthMiddleware guards operational endpoints such as /metrics with a static X-Api-Key
func APIKeyAuthMiddleware(expectedApiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey := c.Request().Header.Get("X-Api-Key")

			if apiKey == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedApiKey)) != 1 {
				return common.Unauthenticated("invalid or missing API key", nil)
			}
			return next(c)
		}
	}
}
