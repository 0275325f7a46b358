package biz

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of them.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrStorage       = errors.New("storage failure")
	ErrAlreadyExists = errors.New("already exists")
)

var (
	ErrEmptyComment     = fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	ErrRatingOutOfRange = fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	ErrEmptyName        = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrInvalidMediaType = fmt.Errorf("%w: invalid media type", ErrValidation)

	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrMediaNotFound = fmt.Errorf("media %w", ErrNotFound)

	// ErrCacheMiss is returned by Cache.Get; it never leaves the biz layer.
	ErrCacheMiss = errors.New("cache miss")
)

// storageError tags err as a StorageFailure unless it already carries a category.
func storageError(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAlreadyExists) || errors.Is(err, ErrStorage) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStorage, err)
}
