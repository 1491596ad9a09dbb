package domain

import "errors"

// Sentinel errors shared across services and adapters. The HTTP layer maps
// each one to a deterministic status code in the central error handler.
var (
	ErrValidation         = errors.New("invalid request")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("not authorized to change the role of this user")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password does not meet the minimum length")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrSelfMessage        = errors.New("cannot send a message to yourself")
	ErrReceiverNotFound   = errors.New("receiver username is not valid")
)
