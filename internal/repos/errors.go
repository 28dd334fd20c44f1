package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
)

// MapError maps storage failures into lifecycle error codes. Errors
// already carrying a code pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*domain.Error); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.Wrap(domain.CodeNotFound, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.Wrap(domain.CodeStorage, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return domain.Wrap(domain.CodeConflict, op, err) // unique_violation
		case "23503":
			return domain.Wrap(domain.CodeInvalidInput, op, err) // foreign_key_violation
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") {
		return domain.Wrap(domain.CodeConflict, op, err)
	}
	return domain.Wrap(domain.CodeStorage, op, err)
}
