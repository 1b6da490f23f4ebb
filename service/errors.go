package service

import (
	"errors"
	"fmt"

	"github.com/zlnvch/blogverse/store"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrBadCredentials   = errors.New("bad credentials")
	ErrUnauthorizedUser = errors.New("unauthorized user")
	ErrStoreFailure     = errors.New("store failure")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// storeError maps a store error onto the service taxonomy.
// A missing item becomes ErrNotFound, everything else is an opaque store failure.
func storeError(op string, err error) error {
	if errors.Is(err, store.ErrItemNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
