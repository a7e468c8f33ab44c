package services

import (
	"errors"
	"fmt"

	"back2u-backend/internal/repository"
)

// Error taxonomy surfaced to callers. Classify with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// storeError classifies a repository error: a missing document becomes
// ErrNotFound, anything else ErrBackendUnavailable.
func storeError(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}
