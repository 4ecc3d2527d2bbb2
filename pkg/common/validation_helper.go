package common

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
)

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool
	Errors  []ErrorDetail
}

// Validator interface for request bodies that can check themselves
type Validator interface {
	Validate(ctx context.Context) ValidationResult
}

// BaseValidator provides common validation functionality.
// Messages are translated with the locale carried by ctx.
type BaseValidator struct {
	ctx context.Context
}

// NewValidator creates a validator bound to the request locale
func NewValidator(ctx context.Context) *BaseValidator {
	return &BaseValidator{ctx: ctx}
}

func (v *BaseValidator) detail(field, messageKey, value string) *ErrorDetail {
	return &ErrorDetail{
		Field:   field,
		Message: TWithContext(v.ctx, messageKey),
		Value:   value,
	}
}

// Required validates that a string field is not blank
func (v *BaseValidator) Required(field string, value string) *ErrorDetail {
	if strings.TrimSpace(value) == "" {
		return v.detail(field, MsgValidationRequired, value)
	}
	return nil
}

// MinLength validates minimum length for strings
func (v *BaseValidator) MinLength(field string, value string, minLength int) *ErrorDetail {
	if len(value) < minLength {
		return v.detail(field, MsgValidationMinLength, "")
	}
	return nil
}

// Email validates a single bare address
func (v *BaseValidator) Email(field string, value string) *ErrorDetail {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return v.detail(field, MsgValidationEmail, value)
	}
	return nil
}

// Positive validates that a number is strictly greater than zero
func (v *BaseValidator) Positive(field string, value float64) *ErrorDetail {
	if value <= 0 {
		return v.detail(field, MsgValidationPositive, strconv.FormatFloat(value, 'f', -1, 64))
	}
	return nil
}

// Range validates that an integer lies in [minValue, maxValue]
func (v *BaseValidator) Range(field string, value, minValue, maxValue int) *ErrorDetail {
	if value < minValue || value > maxValue {
		return v.detail(field, MsgValidationRange, strconv.Itoa(value))
	}
	return nil
}

// ValidateMultiple validates multiple rules and returns all errors
func (v *BaseValidator) ValidateMultiple(rules ...*ErrorDetail) ValidationResult {
	var errors []ErrorDetail
	for _, rule := range rules {
		if rule != nil {
			errors = append(errors, *rule)
		}
	}

	return ValidationResult{
		IsValid: len(errors) == 0,
		Errors:  errors,
	}
}

// Common validation message keys
const (
	MsgValidationRequired  = "validation.required"
	MsgValidationMinLength = "validation.min_length"
	MsgValidationEmail     = "validation.email"
	MsgValidationPositive  = "validation.positive"
	MsgValidationRange     = "validation.range"
	MsgValidationInvalid   = "validation.invalid"
)
