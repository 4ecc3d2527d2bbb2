package models

import "time"

// UserRecord is an account as reported by the identity provider (non-DB)
type UserRecord struct {
	ID            string
	Email         string
	EmailVerified bool
	IsPrivileged  bool
	CreatedAt     time.Time
	LastSignInAt  time.Time
	CustomClaims  map[string]any
}

// UserSummary is the list shape of a user
// @model UserSummary
type UserSummary struct {
	// @example "bc198ec4-3f81-4729-ac5d-04b838d2ab3c"
	ID string `json:"id" example:"bc198ec4-3f81-4729-ac5d-04b838d2ab3c"`
	// @example "john.doe@example.com"
	Email        string `json:"email" example:"john.doe@example.com"`
	IsPrivileged bool   `json:"is_privileged" example:"false"`
}

// UserDetail is the single-user shape
// @model UserDetail
type UserDetail struct {
	ID            string     `json:"id" example:"bc198ec4-3f81-4729-ac5d-04b838d2ab3c"`
	Email         string     `json:"email" example:"john.doe@example.com"`
	EmailVerified bool       `json:"email_verified" example:"true"`
	IsPrivileged  bool       `json:"is_privileged" example:"false"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	LastSignInAt  *time.Time `json:"last_sign_in_at,omitempty"`
}

// CreatedUser is returned after a successful create
type CreatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ClaimsUpdated is returned after the admin claim changes
type ClaimsUpdated struct {
	ID           string `json:"id"`
	IsPrivileged bool   `json:"is_privileged"`
}

// CreateUserRequest is the body of POST /create_user
type CreateUserRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SetAdminRequest is the body of POST /set_admin/:id. Admin is required.
type SetAdminRequest struct {
	Admin *bool `json:"admin"`
}

// Summary converts a record to its list shape
func (u UserRecord) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, IsPrivileged: u.IsPrivileged}
}

// Detail converts a record to its single-user shape; zero timestamps are omitted
func (u UserRecord) Detail() UserDetail {
	detail := UserDetail{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		IsPrivileged:  u.IsPrivileged,
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt.UTC()
		detail.CreatedAt = &created
	}
	if !u.LastSignInAt.IsZero() {
		last := u.LastSignInAt.UTC()
		detail.LastSignInAt = &last
	}
	return detail
}

// IsAdminClaim reports whether a claim set grants admin: the admin key must hold boolean true
func IsAdminClaim(claims map[string]any) bool {
	admin, ok := claims["admin"].(bool)
	return ok && admin
}
