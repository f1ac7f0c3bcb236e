// Package service contains the forum's business rules: identity, authorization,
// posts, uploads, notifications and sessions
package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("invalid request")
	ErrExternalAuth    = errors.New("failed to authenticate with discord")

	ErrUserNotFound = fmt.Errorf("user %w", ErrNotFound)
	ErrPostNotFound = fmt.Errorf("post %w", ErrNotFound)

	ErrMissingFields   = fmt.Errorf("%w: title, description and tag are required", ErrValidation)
	ErrInvalidTag      = fmt.Errorf("%w: unknown tag", ErrValidation)
	ErrUnsupportedType = fmt.Errorf("%w: file type not allowed", ErrValidation)
	ErrInvalidAction   = fmt.Errorf("%w: unknown action", ErrValidation)
	ErrMissingCode     = fmt.Errorf("%w: missing authorization code", ErrValidation)
)
