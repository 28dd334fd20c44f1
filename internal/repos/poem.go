package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
)

type PoemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, poem *domain.Poem) (*domain.Poem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*domain.Poem, error)
	List(ctx context.Context, tx *gorm.DB, statusFilter string) ([]*domain.Poem, error)
	BumpVersion(ctx context.Context, tx *gorm.DB, id string, expectedVersion int) (bool, error)
	SetStatusGuarded(ctx context.Context, tx *gorm.DB, id, fromStatus, toStatus string) (bool, error)
	SetTitle(ctx context.Context, tx *gorm.DB, id, title string) (bool, error)
}

type poemRepo struct {
	db    *gorm.DB
	log   *logger.Logger
	guard CASGuard
}

func NewPoemRepo(db *gorm.DB, baseLog *logger.Logger) PoemRepo {
	repoLog := baseLog.With("repo", "PoemRepo")
	return &poemRepo{db: db, log: repoLog, guard: NewCASGuard(db)}
}

func (pr *poemRepo) Create(ctx context.Context, tx *gorm.DB, poem *domain.Poem) (*domain.Poem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if poem == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(poem).Error; err != nil {
		return nil, err
	}
	return poem, nil
}

func (pr *poemRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*domain.Poem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result domain.Poem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *poemRepo) List(ctx context.Context, tx *gorm.DB, statusFilter string) ([]*domain.Poem, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*domain.Poem
	q := transaction.WithContext(ctx).Order("created_at DESC")
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// BumpVersion increments the poem's version by exactly one iff the
// stored version equals expectedVersion. The updated_at refresh rides
// the same conditional update.
func (pr *poemRepo) BumpVersion(ctx context.Context, tx *gorm.DB, id string, expectedVersion int) (bool, error) {
	return pr.guard.UpdateByVersion(ctx, tx, domain.Poem{}.TableName(), id, expectedVersion, map[string]any{
		"version":    gorm.Expr("version + 1"),
		"updated_at": time.Now().UTC(),
	})
}

func (pr *poemRepo) SetStatusGuarded(ctx context.Context, tx *gorm.DB, id, fromStatus, toStatus string) (bool, error) {
	return pr.guard.UpdateByStatus(ctx, tx, domain.Poem{}.TableName(), id, []string{fromStatus}, map[string]any{
		"status":     toStatus,
		"updated_at": time.Now().UTC(),
	})
}

func (pr *poemRepo) SetTitle(ctx context.Context, tx *gorm.DB, id, title string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Poem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":      title,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
