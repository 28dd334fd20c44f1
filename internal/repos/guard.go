package repos

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
)

// CASGuard provides conditional-update helpers for poem writes. Both
// helpers report whether the guarded row matched; a false return with
// a nil error means the precondition no longer holds.
type CASGuard struct {
	db *gorm.DB
}

func NewCASGuard(db *gorm.DB) CASGuard {
	return CASGuard{db: db}
}

func (g CASGuard) baseDB(ctx context.Context, tx *gorm.DB) (*gorm.DB, error) {
	if tx != nil {
		return tx.WithContext(ctx), nil
	}
	if g.db != nil {
		return g.db.WithContext(ctx), nil
	}
	return nil, domain.NewError(domain.CodeStorage, "cas_guard", "missing db handle", nil)
}

// UpdateByVersion updates a row only when id+version match.
// Compare-and-set semantics for optimistic-locking appends.
func (g CASGuard) UpdateByVersion(ctx context.Context, tx *gorm.DB, table, id string, expectedVersion int, updates map[string]any) (bool, error) {
	db, err := g.baseDB(ctx, tx)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || strings.TrimSpace(id) == "" {
		return false, domain.NewError(domain.CodeInvalidArgument, "cas_guard", "table and id are required for UpdateByVersion", nil)
	}
	if expectedVersion < 0 {
		return false, domain.NewError(domain.CodeInvalidArgument, "cas_guard", "expectedVersion must be >= 0", nil)
	}
	res := db.Table(table).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateByStatus updates a row only when id+status guard matches.
// Keeps terminal states terminal regardless of racing writers.
func (g CASGuard) UpdateByStatus(ctx context.Context, tx *gorm.DB, table, id string, allowedStatuses []string, updates map[string]any) (bool, error) {
	db, err := g.baseDB(ctx, tx)
	if err != nil {
		return false, err
	}
	table = strings.TrimSpace(table)
	if table == "" || strings.TrimSpace(id) == "" {
		return false, domain.NewError(domain.CodeInvalidArgument, "cas_guard", "table and id are required for UpdateByStatus", nil)
	}
	if len(allowedStatuses) == 0 {
		return false, domain.NewError(domain.CodeInvalidArgument, "cas_guard", "allowedStatuses must not be empty", nil)
	}
	res := db.Table(table).
		Where("id = ? AND status IN ?", id, allowedStatuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
