package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrDuplicateEmail      = errors.New("an account with this email already exists")
	ErrDuplicateUsername   = errors.New("this username is already taken")
	ErrWeakCredential      = errors.New("password should be at least 6 characters")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)
