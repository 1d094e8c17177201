package http

import (
	"errors"

	"github.com/nikolayk812/smartpos/internal/domain"
)

// storeError classifies raw repository failures as persistence errors and
// passes typed domain errors through.
func storeError(op string, err error) error {
	for _, sentinel := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrInsufficientStock,
		domain.ErrPersistence,
		domain.ErrPartialCommit,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	return &domain.PersistenceError{Op: op, Err: err}
}
