package domain

import "errors"

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrChildNotFound       = errors.New("child not found")
	ErrGuestNotFound       = errors.New("guest not found")
	ErrInvalidStatus       = errors.New("status must be \"in\" or \"out\"")
	ErrProviderUnavailable = errors.New("document store unavailable")
)
