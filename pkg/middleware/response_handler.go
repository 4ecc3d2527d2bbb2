package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/thanhthanh221/identity-gateway/pkg/common"
	"github.com/thanhthanh221/identity-gateway/pkg/helpers"
)

// RequestContextMiddleware stores the start time, locale and request id on the request context
// so envelopes can report processing time and localized messages.
// Mount it after echo's RequestID middleware.
func RequestContextMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := common.WithRequestStart(req.Context(), time.Now())

			locale := common.GetLocaleFromHeader(req.Header)
			ctx = common.SetLocaleInContext(ctx, locale)
			c.Response().Header().Set("Content-Language", locale)

			if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
				ctx = common.WithRequestID(ctx, requestID)
				c.Set(common.EchoRequestIDKey, requestID)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// NewHTTPErrorHandler renders every error returned by handlers and middleware as the error envelope
func NewHTTPErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		appErr := toAppError(err)
		resp := common.ErrorResponseFromAppError(ctx, appErr)
		resp.ProcessingTime = common.ProcessingTime(ctx)

		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request().Method,
			"path":       c.Request().URL.Path,
			"status":     resp.Code,
			"kind":       appErr.Kind,
			"request_id": helpers.GetRequestId(c),
		})
		if appErr.Kind == common.KindInternal {
			entry.WithError(err).Error("request failed")
		} else {
			entry.WithError(err).Debug("request rejected")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(int(resp.Code))
		} else {
			writeErr = c.JSON(int(resp.Code), resp)
		}
		if writeErr != nil {
			logger.WithError(writeErr).Error("failed to write error response")
		}
	}
}

// StatusOf reports the status an error will be rendered with, or the written status when err is nil
func StatusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	return toAppError(err).Status()
}

func toAppError(err error) *common.AppError {
	if appErr, ok := common.AsAppError(err); ok {
		return appErr
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fromHTTPError(httpErr)
	}
	return common.Internal("", err)
}

// fromHTTPError covers routing misses, method mismatches and errors raised by echo's own middleware
func fromHTTPError(httpErr *echo.HTTPError) *common.AppError {
	message := fmt.Sprint(httpErr.Message)
	generic := message == http.StatusText(httpErr.Code)

	var appErr *common.AppError
	switch httpErr.Code {
	case http.StatusUnauthorized:
		appErr = common.Unauthenticated(message, httpErr)
	case http.StatusForbidden:
		appErr = common.Forbidden(message).WithCause(httpErr)
	case http.StatusNotFound:
		appErr = common.NotFound(message, httpErr)
	case http.StatusMethodNotAllowed:
		appErr = common.BadRequest(message).WithCause(httpErr).Keyed(common.MsgErrorMethodNotAllowed)
	default:
		if httpErr.Code >= http.StatusInternalServerError {
			return common.Internal("", httpErr)
		}
		appErr = common.BadRequest(message).WithCause(httpErr)
	}
	appErr = appErr.WithStatus(httpErr.Code)

	if generic && appErr.MessageKey == "" {
		appErr.Message = ""
	}
	return appErr
}
