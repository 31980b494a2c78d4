package domain

import (
	"errors"
	"os"
)

const (
	RoleUser = "user"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	JwtSecret = os.Getenv("JWT_SECRET")

	ErrParseUUID     = errors.New("failed to parse UUID")
	ErrTokenNotFound = errors.New("failed to token not found")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
)

// FieldError is a validation failure attributable to a single request field.
// The presenter renders it as a field-keyed error map.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Reason }

func NewFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

// IsNotFound reports whether err refers to a missing entity and should map to
// a 404 response rather than a generic 400.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrTagNotFound) ||
		errors.Is(err, ErrIngredientNotFound)
}
