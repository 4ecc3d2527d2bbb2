package services

import "errors"

// Classified failures reported by identity providers and profile stores.
// Implementations return (or wrap) these; the services map them into the error taxonomy.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrProfileNotFound = errors.New("profile not found")
)
