package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
)

type PoemLineRepo interface {
	Insert(ctx context.Context, tx *gorm.DB, line *domain.PoemLine) (*domain.PoemLine, error)
	CountByPoemID(ctx context.Context, tx *gorm.DB, poemID string) (int64, error)
	ListByPoemID(ctx context.Context, tx *gorm.DB, poemID string) ([]*domain.PoemLine, error)
}

type poemLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPoemLineRepo(db *gorm.DB, baseLog *logger.Logger) PoemLineRepo {
	repoLog := baseLog.With("repo", "PoemLineRepo")
	return &poemLineRepo{db: db, log: repoLog}
}

func (lr *poemLineRepo) Insert(ctx context.Context, tx *gorm.DB, line *domain.PoemLine) (*domain.PoemLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	if line == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

func (lr *poemLineRepo) CountByPoemID(ctx context.Context, tx *gorm.DB, poemID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&domain.PoemLine{}).
		Where("poem_id = ?", poemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (lr *poemLineRepo) ListByPoemID(ctx context.Context, tx *gorm.DB, poemID string) ([]*domain.PoemLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var results []*domain.PoemLine
	if err := transaction.WithContext(ctx).
		Where("poem_id = ?", poemID).
		Order("line_number ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
