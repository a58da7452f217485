package repositories

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	domainerrors "donation-platform.backend/internal/domain/errors"
)

const pqUniqueViolation = "23505"

// translateError maps driver errors onto domain errors.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainerrors.ErrNotFound
	}
	if isDuplicateKey(err) {
		return domainerrors.ErrAlreadyExists
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}
