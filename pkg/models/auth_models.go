package models

import "context"

// IdentityContext is the verified caller of one request (non-DB).
// It is built by the auth gate from exactly one bearer credential and dropped with the response.
// @model IdentityContext
type IdentityContext struct {
	// @Description Subject id taken from the sub claim, or uid when sub is absent
	// @example "bc198ec4-3f81-4729-ac5d-04b838d2ab3c"
	SubjectID string `json:"uid" example:"bc198ec4-3f81-4729-ac5d-04b838d2ab3c"`
	// @Description True only when the admin claim is boolean true
	// @example false
	IsPrivileged bool `json:"admin" example:"false"`
	// @Description Every claim carried by the verified token
	RawClaims map[string]any `json:"claims,omitempty"`
}

type identityKey struct{}

// WithIdentity stores the verified caller on ctx
func WithIdentity(ctx context.Context, identity *IdentityContext) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the caller stored by WithIdentity
func IdentityFromContext(ctx context.Context) (*IdentityContext, bool) {
	identity, ok := ctx.Value(identityKey{}).(*IdentityContext)
	return identity, ok && identity != nil
}

// AdminStatus is the body returned by the admin probe endpoints
type AdminStatus struct {
	UID     string `json:"uid"`
	IsAdmin bool   `json:"is_admin"`
	Msg     string `json:"msg"`
}

// VerifyStatus is the body returned by /verify_user and /protected
type VerifyStatus struct {
	Status string `json:"status" example:"verified"`
	UID    string `json:"uid"`
	Admin  bool   `json:"admin"`
}
