package service

import (
	"errors"
	"fmt"
)

// Sentinel errors of the API. Controllers map these onto HTTP statuses; wrap
// with %w to add detail while keeping the category intact.
var (
	ErrValidation         = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrTokenMissing  = errors.New("request does not contain an access token")
	ErrTokenInvalid  = errors.New("the token is invalid")
	ErrTokenExpired  = errors.New("the token has expired")
	ErrTokenRevoked  = errors.New("the token has been revoked, please login again")
	ErrTokenNotFresh = errors.New("the token is not fresh, please login again")
)

func validationf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, a...))
}

func notFoundf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, a...))
}

func deniedf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, a...))
}
