package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/alpha-aviation/enrollment-service/internal/repositories"
)

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrNotStudent         = errors.New("user is not a student")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrPaymentGateway     = errors.New("payment gateway error")
)

// storeError translates repository failures into service errors.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("failed to %s: %w", op, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("failed to %s: %w", op, ErrDuplicateEmail)
	case errors.Is(err, repositories.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("failed to %s: %w: %w", op, ErrStoreUnavailable, err)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidationFailed, err)
}
