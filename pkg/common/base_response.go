package common

import (
	"context"
	"time"
)

// ResponseCode mirrors the HTTP status written with the envelope
type ResponseCode int

const (
	SUCCESS         ResponseCode = 200
	CREATED         ResponseCode = 201
	BAD_REQUEST     ResponseCode = 400
	UNAUTHORIZED    ResponseCode = 401
	FORBIDDEN       ResponseCode = 403
	NOT_FOUND       ResponseCode = 404
	INTERNAL_ERROR  ResponseCode = 500
	NOT_IMPLEMENTED ResponseCode = 501
)

// BaseResponse represents the standard success envelope
// @Description Standard API response
type BaseResponse struct {
	// @Description Response code, equal to the HTTP status
	// @example 200
	Code ResponseCode `json:"code" example:"200" swaggertype:"integer"`

	// @Description Localized message
	// @example "Success"
	Message string `json:"message" example:"Success"`

	// @Description Payload
	Data any `json:"data,omitempty"`

	// @example "2024-01-15T10:30:00Z"
	Timestamp time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`

	// @Description Request processing time (milliseconds)
	ProcessingTime int64 `json:"processing_time,omitempty" example:"12"`
}

// ErrorDetail represents a single field-level problem
type ErrorDetail struct {
	Field   string `json:"field,omitempty" example:"email"`
	Message string `json:"message" example:"Email is invalid"`
	Value   string `json:"value,omitempty" example:"not-an-email"`
}

// ErrorResponse represents the error envelope
// @Description Error response
type ErrorResponse struct {
	// @Description HTTP status
	// @example 401
	Code ResponseCode `json:"code" example:"401" swaggertype:"integer"`

	// @Description Error kind (unauthenticated, forbidden, not_found, conflict, bad_request, internal)
	// @example "unauthenticated"
	Error ErrorKind `json:"error" example:"unauthenticated"`

	// @Description Localized message
	Message string `json:"message" example:"Authentication required"`

	Details []ErrorDetail `json:"details,omitempty"`

	Timestamp time.Time `json:"timestamp" example:"2024-01-15T10:30:00Z"`

	ProcessingTime int64 `json:"processing_time,omitempty" example:"3"`
}

// SuccessResponse creates a success response
func SuccessResponse(data any, message string) BaseResponse {
	return BaseResponse{
		Code:      SUCCESS,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// SuccessResponseWithContext creates a success response translated with the locale on ctx
func SuccessResponseWithContext(ctx context.Context, data any, messageKey string) BaseResponse {
	return SuccessResponse(data, TWithContext(ctx, messageKey))
}

// CreateErrorResponse creates an error envelope for the given status and kind
func CreateErrorResponse(code ResponseCode, kind ErrorKind, message string, details ...ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Code:      code,
		Error:     kind,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// ErrorResponseFromAppError renders an AppError into the error envelope.
// The message is localized from MessageKey when the catalog has it, otherwise Message is kept.
func ErrorResponseFromAppError(ctx context.Context, err *AppError) *ErrorResponse {
	var message string
	switch {
	case err.MessageKey != "":
		message = TWithContextAndFallback(ctx, err.MessageKey, err.Message)
	case err.Message != "":
		message = err.Message
	default:
		message = TWithContext(ctx, kindMessageKey(err.Kind))
	}
	return CreateErrorResponse(ResponseCode(err.Status()), err.Kind, message, err.Details...)
}
