package common

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// I18nContextKey is the key used to store locale in context
const I18nContextKey contextKey = "locale"

// GetLocaleFromContext extracts locale from context
func GetLocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(I18nContextKey).(string); ok {
		return locale
	}
	return GetGlobalI18n().GetLocale()
}

// SetLocaleInContext sets locale in context
func SetLocaleInContext(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, I18nContextKey, locale)
}

var supportedLocales = map[string]string{
	"en":    "en",
	"zh-tw": "zh-TW",
	"zh-hk": "zh-TW",
	"zh":    "zh-TW",
}

// GetLocaleFromHeader extracts locale from Accept-Language header
// Supports quality values: "zh-TW,zh;q=0.9,en;q=0.8"
// Entries are tried in header order; quality values are not re-sorted.
func GetLocaleFromHeader(header http.Header) string {
	acceptLang := header.Get("Accept-Language")
	if acceptLang == "" {
		return GetGlobalI18n().GetLocale()
	}

	for _, lang := range strings.Split(acceptLang, ",") {
		langCode := strings.ToLower(strings.TrimSpace(strings.Split(lang, ";")[0]))
		if langCode == "" {
			continue
		}

		if mapped, ok := supportedLocales[langCode]; ok {
			return mapped
		}
		// Retry without the region code ("en-US" -> "en")
		if idx := strings.Index(langCode, "-"); idx > 0 {
			if mapped, ok := supportedLocales[langCode[:idx]]; ok {
				return mapped
			}
		}
	}

	return GetGlobalI18n().GetLocale()
}

// TWithContext gets a message using locale from context
func TWithContext(ctx context.Context, keyPath string) string {
	return GetGlobalI18n().GetMessageIn(GetLocaleFromContext(ctx), keyPath)
}

// TWithContextAndFallback gets a message using locale from context with fallback
func TWithContextAndFallback(ctx context.Context, keyPath string, fallback string) string {
	msg := TWithContext(ctx, keyPath)
	if msg == keyPath {
		return fallback
	}
	return msg
}

// Common i18n message keys
const (
	// Success messages
	MsgSuccessDefault   = "response.success.default"
	MsgSuccessCreated   = "response.success.created"
	MsgSuccessUpdated   = "response.success.updated"
	MsgSuccessDeleted   = "response.success.deleted"
	MsgSuccessRetrieved = "response.success.retrieved"

	// Error messages
	MsgErrorValidation       = "response.error.validation"
	MsgErrorNotFound         = "response.error.not_found"
	MsgErrorUnauthorized     = "response.error.unauthorized"
	MsgErrorForbidden        = "response.error.forbidden"
	MsgErrorConflict         = "response.error.conflict"
	MsgErrorInternal         = "response.error.internal"
	MsgErrorBadRequest       = "response.error.bad_request"
	MsgErrorMethodNotAllowed = "response.error.method_not_allowed"

	// Authentication messages
	MsgAuthMissingHeader   = "auth.missing_header"
	MsgAuthMalformedHeader = "auth.malformed_header"
	MsgAuthInvalidToken    = "auth.invalid_token"
	MsgAuthNoSubject       = "auth.no_subject"
	MsgAuthAdminRequired   = "auth.admin_required"

	// User and profile messages
	MsgUserNotFound       = "user.not_found"
	MsgUserEmailExists    = "user.email_exists"
	MsgUserEmailRequired  = "user.email_required"
	MsgUserDeleted        = "user.deleted"
	MsgUserClaimsUpdated  = "user.claims_updated"
	MsgProfileNotFound    = "profile.not_found"
	MsgProfileUpdated     = "profile.updated"
	MsgProfileEmptyUpdate = "profile.empty_update"
	MsgWelcome            = "general.welcome"
	MsgHealthy            = "general.healthy"
	MsgAdminWelcome       = "general.admin_welcome"
	MsgVerified           = "general.verified"
)
