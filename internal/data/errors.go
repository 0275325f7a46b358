package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediareview/internal/biz"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapError converts gorm and driver errors to biz errors.
// notFound is returned for gorm.ErrRecordNotFound.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", biz.ErrStorage, err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", biz.ErrAlreadyExists, err)
	}

	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
