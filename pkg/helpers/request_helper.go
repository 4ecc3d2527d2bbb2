package helpers

import (
	"github.com/labstack/echo/v4"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
)

// GetTraceId returns the caller supplied trace id header
func GetTraceId(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Trace-Id")
}

// GetRequestId returns the id assigned by the request-id middleware,
// falling back to the X-Request-Id header set on the response
func GetRequestId(c echo.Context) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Get(common.EchoRequestIDKey).(string); ok && id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
