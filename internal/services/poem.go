package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
	"github.com/nbeaumont/exquisite-backend/internal/repos"
	"github.com/nbeaumont/exquisite-backend/internal/utils"
)

type PoemSummary struct {
	ID               string    `json:"id"`
	TotalLines       int       `json:"total_lines"`
	CurrentLineCount int       `json:"current_line_count"`
	Status           string    `json:"status"`
	SeedLine         string    `json:"seed_line"`
	CreatedAt        time.Time `json:"created_at"`
}

// LineView is the caller-facing projection of a stored line. FullText
// is only populated once the poem is revealed; before that the hint is
// all any contributor gets to see.
type LineView struct {
	LineNumber  int    `json:"line_number"`
	VisibleHint string `json:"visible_hint"`
	FullText    string `json:"full_text,omitempty"`
}

type PoemDetail struct {
	ID         string     `json:"id"`
	TotalLines int        `json:"total_lines"`
	Status     string     `json:"status"`
	Title      string     `json:"title,omitempty"`
	Version    int        `json:"version"`
	Lines      []LineView `json:"lines"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreatePoemResult struct {
	ID         string    `json:"id"`
	TotalLines int       `json:"total_lines"`
	Status     string    `json:"status"`
	SeedLine   string    `json:"seed_line"`
	SeedHint   string    `json:"seed_hint"`
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
}

type AddLineResult struct {
	Line       LineView `json:"line"`
	Version    int      `json:"version"`
	IsComplete bool     `json:"is_complete"`
}

type PoemService interface {
	CreatePoem(ctx context.Context, tx *gorm.DB, totalLines int) (*CreatePoemResult, error)
	ListPoems(ctx context.Context, tx *gorm.DB, statusFilter string) ([]*PoemSummary, error)
	GetPoem(ctx context.Context, tx *gorm.DB, id string) (*PoemDetail, error)
	AddLine(ctx context.Context, tx *gorm.DB, id, text string, expectedVersion int) (*AddLineResult, error)
	Reveal(ctx context.Context, tx *gorm.DB, id string) (*PoemDetail, error)
}

type poemService struct {
	db            *gorm.DB
	log           *logger.Logger
	poemRepo      repos.PoemRepo
	lineRepo      repos.PoemLineRepo
	hintWordCount int
}

func NewPoemService(
	db *gorm.DB,
	baseLog *logger.Logger,
	poemRepo repos.PoemRepo,
	lineRepo repos.PoemLineRepo,
	hintWordCount int,
) PoemService {
	serviceLog := baseLog.With("service", "PoemService")
	if hintWordCount <= 0 {
		hintWordCount = DefaultHintWordCount
	}
	return &poemService{
		db:            db,
		log:           serviceLog,
		poemRepo:      poemRepo,
		lineRepo:      lineRepo,
		hintWordCount: hintWordCount,
	}
}

// inTransaction runs fn inside tx when one was handed in, otherwise
// inside a fresh transaction on the service db. The version bump, line
// insert and completion flip of AddLine share one transaction so a
// crash cannot leave a bumped version without its line.
func (ps *poemService) inTransaction(ctx context.Context, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return ps.db.WithContext(ctx).Transaction(fn)
}

func (ps *poemService) CreatePoem(ctx context.Context, tx *gorm.DB, totalLines int) (*CreatePoemResult, error) {
	const op = "poem.create"

	if !domain.AllowedTotalLines(totalLines) {
		return nil, domain.NewError(domain.CodeInvalidArgument, op, "total_lines must be one of 5, 7, 11, 13", nil)
	}

	id, err := utils.NewPoemID()
	if err != nil {
		return nil, domain.Wrap(domain.CodeStorage, op, err)
	}

	seed := randomSeedLine()
	seedHint := ComputeHint(seed, ps.hintWordCount)
	now := time.Now().UTC()
	poem := &domain.Poem{
		ID:         id,
		TotalLines: totalLines,
		Status:     domain.PoemStatusActive,
		SeedLine:   seed,
		Version:    0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	line := &domain.PoemLine{
		ID:          uuid.New(),
		PoemID:      id,
		LineNumber:  1,
		FullText:    seed,
		VisibleHint: seedHint,
		CreatedAt:   now,
	}

	err = ps.inTransaction(ctx, tx, func(tx *gorm.DB) error {
		if _, err := ps.poemRepo.Create(ctx, tx, poem); err != nil {
			return repos.MapError(op, err)
		}
		if _, err := ps.lineRepo.Insert(ctx, tx, line); err != nil {
			return repos.MapError(op, err)
		}
		return nil
	})
	if err != nil {
		ps.log.Error("CreatePoem failed", "error", err, "total_lines", totalLines)
		return nil, err
	}

	ps.log.Info("Poem created", "poem_id", id, "total_lines", totalLines)
	return &CreatePoemResult{
		ID:         id,
		TotalLines: totalLines,
		Status:     domain.PoemStatusActive,
		SeedLine:   seed,
		SeedHint:   seedHint,
		Version:    0,
		CreatedAt:  now,
	}, nil
}

func (ps *poemService) ListPoems(ctx context.Context, tx *gorm.DB, statusFilter string) ([]*PoemSummary, error) {
	const op = "poem.list"

	if statusFilter != "" && !domain.ValidPoemStatus(statusFilter) {
		return nil, domain.NewError(domain.CodeInvalidArgument, op, "unknown status filter", nil)
	}

	poems, err := ps.poemRepo.List(ctx, tx, statusFilter)
	if err != nil {
		ps.log.Error("ListPoems failed", "error", err)
		return nil, repos.MapError(op, err)
	}

	summaries := make([]*PoemSummary, 0, len(poems))
	for _, p := range poems {
		count, err := ps.lineRepo.CountByPoemID(ctx, tx, p.ID)
		if err != nil {
			ps.log.Error("ListPoems line count failed", "error", err, "poem_id", p.ID)
			return nil, repos.MapError(op, err)
		}
		summaries = append(summaries, &PoemSummary{
			ID:               p.ID,
			TotalLines:       p.TotalLines,
			CurrentLineCount: int(count),
			Status:           p.Status,
			SeedLine:         p.SeedLine,
			CreatedAt:        p.CreatedAt,
		})
	}
	return summaries, nil
}

func (ps *poemService) GetPoem(ctx context.Context, tx *gorm.DB, id string) (*PoemDetail, error) {
	const op = "poem.get"

	poem, err := ps.poemRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, repos.MapError(op, err)
	}
	lines, err := ps.lineRepo.ListByPoemID(ctx, tx, id)
	if err != nil {
		ps.log.Error("GetPoem line load failed", "error", err, "poem_id", id)
		return nil, repos.MapError(op, err)
	}
	return projectPoem(poem, lines), nil
}

func (ps *poemService) AddLine(ctx context.Context, tx *gorm.DB, id, text string, expectedVersion int) (*AddLineResult, error) {
	const op = "poem.add_line"

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.NewError(domain.CodeInvalidInput, op, "Line text cannot be empty", nil)
	}

	var result *AddLineResult
	err := ps.inTransaction(ctx, tx, func(tx *gorm.DB) error {
		poem, err := ps.poemRepo.GetByID(ctx, tx, id)
		if err != nil {
			return repos.MapError(op, err)
		}
		switch poem.Status {
		case domain.PoemStatusComplete:
			return domain.NewError(domain.CodeInvalidState, op, "already complete", nil)
		case domain.PoemStatusRevealed:
			return domain.NewError(domain.CodeInvalidState, op, "already revealed", nil)
		}

		ok, err := ps.poemRepo.BumpVersion(ctx, tx, id, expectedVersion)
		if err != nil {
			return repos.MapError(op, err)
		}
		if !ok {
			// Existence was just checked, so a missed guard means
			// another writer advanced the version first.
			return domain.NewError(domain.CodeConflict, op, "version mismatch, poem was modified by another writer", nil)
		}

		count, err := ps.lineRepo.CountByPoemID(ctx, tx, id)
		if err != nil {
			return repos.MapError(op, err)
		}
		lineNumber := int(count) + 1
		hint := ComputeHint(trimmed, ps.hintWordCount)
		line := &domain.PoemLine{
			ID:          uuid.New(),
			PoemID:      id,
			LineNumber:  lineNumber,
			FullText:    trimmed,
			VisibleHint: hint,
			CreatedAt:   time.Now().UTC(),
		}
		if _, err := ps.lineRepo.Insert(ctx, tx, line); err != nil {
			return repos.MapError(op, err)
		}

		isComplete := lineNumber >= poem.TotalLines
		if isComplete {
			flipped, err := ps.poemRepo.SetStatusGuarded(ctx, tx, id, domain.PoemStatusActive, domain.PoemStatusComplete)
			if err != nil {
				return repos.MapError(op, err)
			}
			if !flipped {
				return domain.NewError(domain.CodeConflict, op, "completion transition lost a race", nil)
			}
		}

		result = &AddLineResult{
			Line: LineView{
				LineNumber:  lineNumber,
				VisibleHint: hint,
			},
			Version:    expectedVersion + 1,
			IsComplete: isComplete,
		}
		return nil
	})
	if err != nil {
		if domain.IsCode(err, domain.CodeConflict) {
			ps.log.Warn("AddLine version conflict", "poem_id", id, "expected_version", expectedVersion)
		} else {
			ps.log.Error("AddLine failed", "error", err, "poem_id", id)
		}
		return nil, err
	}

	ps.log.Info("Line appended", "poem_id", id, "line_number", result.Line.LineNumber, "is_complete", result.IsComplete)
	return result, nil
}

// errRevealRaced signals that another caller won the complete->revealed
// transition while this one held the poem.
var errRevealRaced = errors.New("reveal raced")

func (ps *poemService) Reveal(ctx context.Context, tx *gorm.DB, id string) (*PoemDetail, error) {
	const op = "poem.reveal"

	poem, err := ps.poemRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, repos.MapError(op, err)
	}

	switch poem.Status {
	case domain.PoemStatusActive:
		return nil, domain.NewError(domain.CodeInvalidState, op, "not yet complete", nil)
	case domain.PoemStatusRevealed:
		// Idempotent: the stored title stands, nothing is regenerated.
		return ps.GetPoem(ctx, tx, id)
	}

	err = ps.inTransaction(ctx, tx, func(tx *gorm.DB) error {
		flipped, err := ps.poemRepo.SetStatusGuarded(ctx, tx, id, domain.PoemStatusComplete, domain.PoemStatusRevealed)
		if err != nil {
			return repos.MapError(op, err)
		}
		if !flipped {
			return errRevealRaced
		}
		lines, err := ps.lineRepo.ListByPoemID(ctx, tx, id)
		if err != nil {
			return repos.MapError(op, err)
		}
		title := GenerateTitle(lines)
		if _, err := ps.poemRepo.SetTitle(ctx, tx, id, title); err != nil {
			return repos.MapError(op, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRevealRaced) {
		ps.log.Error("Reveal failed", "error", err, "poem_id", id)
		return nil, err
	}
	if errors.Is(err, errRevealRaced) {
		ps.log.Warn("Reveal raced, returning persisted state", "poem_id", id)
	} else {
		ps.log.Info("Poem revealed", "poem_id", id)
	}

	return ps.GetPoem(ctx, tx, id)
}

// projectPoem applies the visibility rule: full text stays hidden until
// the poem is revealed.
func projectPoem(poem *domain.Poem, lines []*domain.PoemLine) *PoemDetail {
	revealed := poem.Status == domain.PoemStatusRevealed
	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		v := LineView{
			LineNumber:  l.LineNumber,
			VisibleHint: l.VisibleHint,
		}
		if revealed {
			v.FullText = l.FullText
		}
		views = append(views, v)
	}
	return &PoemDetail{
		ID:         poem.ID,
		TotalLines: poem.TotalLines,
		Status:     poem.Status,
		Title:      poem.Title,
		Version:    poem.Version,
		Lines:      views,
		CreatedAt:  poem.CreatedAt,
		UpdatedAt:  poem.UpdatedAt,
	}
}
