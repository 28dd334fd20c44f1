package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
	"github.com/nbeaumont/exquisite-backend/internal/repos/testutil"
)

func TestPoemLineRepoInsertCountList(t *testing.T) {
	db := testutil.DB(t)
	poemRepo := NewPoemRepo(db, testutil.Logger(t))
	lineRepo := NewPoemLineRepo(db, testutil.Logger(t))
	ctx := context.Background()

	p := seedPoem(t, ctx, poemRepo, "poem-lines-01", time.Now().UTC())

	texts := []string{
		"The moon forgot its own reflection",
		"and fell asleep inside a river stone",
		"where silver fish rehearse the dark",
	}
	// Insert out of order so list ordering is actually exercised.
	for _, n := range []int{2, 1, 3} {
		_, err := lineRepo.Insert(ctx, nil, &domain.PoemLine{
			ID:          uuid.New(),
			PoemID:      p.ID,
			LineNumber:  n,
			FullText:    texts[n-1],
			VisibleHint: "hint",
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Insert line %d: %v", n, err)
		}
	}

	count, err := lineRepo.CountByPoemID(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("CountByPoemID: %v", err)
	}
	if count != 3 {
		t.Fatalf("CountByPoemID: expected 3, got %d", count)
	}

	lines, err := lineRepo.ListByPoemID(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("ListByPoemID: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("ListByPoemID: expected 3, got %d", len(lines))
	}
	for i, l := range lines {
		if l.LineNumber != i+1 {
			t.Fatalf("ListByPoemID: expected line_number %d at position %d, got %d", i+1, i, l.LineNumber)
		}
		if l.FullText != texts[i] {
			t.Fatalf("ListByPoemID: unexpected text at line %d: %q", i+1, l.FullText)
		}
	}

	count, err = lineRepo.CountByPoemID(ctx, nil, "missing-id-00")
	if err != nil {
		t.Fatalf("CountByPoemID (missing): %v", err)
	}
	if count != 0 {
		t.Fatalf("CountByPoemID (missing): expected 0, got %d", count)
	}
}

func TestPoemLineRepoUniqueLineNumber(t *testing.T) {
	db := testutil.DB(t)
	poemRepo := NewPoemRepo(db, testutil.Logger(t))
	lineRepo := NewPoemLineRepo(db, testutil.Logger(t))
	ctx := context.Background()

	p := seedPoem(t, ctx, poemRepo, "poem-uniq-001", time.Now().UTC())

	first := &domain.PoemLine{
		ID:          uuid.New(),
		PoemID:      p.ID,
		LineNumber:  1,
		FullText:    "a line",
		VisibleHint: "a line",
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := lineRepo.Insert(ctx, nil, first); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	dup := &domain.PoemLine{
		ID:          uuid.New(),
		PoemID:      p.ID,
		LineNumber:  1,
		FullText:    "another line",
		VisibleHint: "another line",
		CreatedAt:   time.Now().UTC(),
	}
	_, err := lineRepo.Insert(ctx, nil, dup)
	if err == nil {
		t.Fatalf("Insert: expected unique (poem_id, line_number) violation")
	}
	if code := domain.CodeOf(MapError("poem_line.insert", err)); code != domain.CodeConflict {
		t.Fatalf("MapError: expected conflict code, got %q (%v)", code, err)
	}
}
