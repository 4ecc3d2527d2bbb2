package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// BaseController renders the success envelope for Echo handlers.
// Failures are returned as errors and rendered by the HTTP error handler.
type BaseController struct{}

// Success returns a success response with i18n support
func (controller *BaseController) Success(c echo.Context, v any) error {
	return controller.SuccessWithMessage(c, v, MsgSuccessDefault)
}

// SuccessWithMessage returns a success response with custom i18n message
func (controller *BaseController) SuccessWithMessage(c echo.Context, v any, messageKey string) error {
	return controller.respond(c, http.StatusOK, v, messageKey)
}

// ResponseCreated returns a 201 response for resource creation
func (controller *BaseController) ResponseCreated(c echo.Context, v any) error {
	return controller.respond(c, http.StatusCreated, v, MsgSuccessCreated)
}

// ResponseUpdated returns a success response for resource updates
func (controller *BaseController) ResponseUpdated(c echo.Context, v any, messageKey string) error {
	if messageKey == "" {
		messageKey = MsgSuccessUpdated
	}
	return controller.respond(c, http.StatusOK, v, messageKey)
}

// ResponseDeleted returns a success response for resource deletion
func (controller *BaseController) ResponseDeleted(c echo.Context, messageKey string) error {
	if messageKey == "" {
		messageKey = MsgSuccessDeleted
	}
	return controller.respond(c, http.StatusOK, nil, messageKey)
}

// ResponseRetrieved returns a success response for resource retrieval
func (controller *BaseController) ResponseRetrieved(c echo.Context, v any) error {
	return controller.respond(c, http.StatusOK, v, MsgSuccessRetrieved)
}

func (controller *BaseController) respond(c echo.Context, status int, v any, messageKey string) error {
	ctx := c.Request().Context()
	response := SuccessResponseWithContext(ctx, v, messageKey)
	response.Code = ResponseCode(status)
	response.ProcessingTime = ProcessingTime(ctx)
	return c.JSON(status, response)
}

// HandleValidation turns a failed validation result into a BadRequest error
func (controller *BaseController) HandleValidation(result ValidationResult) error {
	if !result.IsValid {
		return BadRequest("request validation failed", result.Errors...).Keyed(MsgErrorValidation)
	}
	return nil
}

// HandleBindError converts a bind error into a BadRequest error carrying the bind message
func (controller *BaseController) HandleBindError(bindErr error) error {
	detail := ErrorDetail{Field: "body", Message: bindErr.Error()}
	var httpErr *echo.HTTPError
	if errors.As(bindErr, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			detail.Message = msg
		}
	}
	return BadRequest("invalid request body", detail).Keyed(MsgErrorBadRequest)
}
