package repos

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
	"github.com/nbeaumont/exquisite-backend/internal/repos/testutil"
)

func seedPoem(tb testing.TB, ctx context.Context, repo PoemRepo, id string, createdAt time.Time) *domain.Poem {
	tb.Helper()
	p := &domain.Poem{
		ID:         id,
		TotalLines: 5,
		Status:     domain.PoemStatusActive,
		SeedLine:   "The moon forgot its own reflection",
		Version:    0,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	if _, err := repo.Create(ctx, nil, p); err != nil {
		tb.Fatalf("seed poem %s: %v", id, err)
	}
	return p
}

func TestPoemRepoCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPoemRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created := seedPoem(t, ctx, repo, "poem-aaa-001", time.Now().UTC())

	got, err := repo.GetByID(ctx, nil, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != created.ID || got.TotalLines != 5 || got.Status != domain.PoemStatusActive || got.Version != 0 {
		t.Fatalf("GetByID: unexpected row: %+v", got)
	}

	_, err = repo.GetByID(ctx, nil, "missing-id-00")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID (missing): expected record not found, got %v", err)
	}
}

func TestPoemRepoListOrderAndFilter(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPoemRepo(db, testutil.Logger(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	older := seedPoem(t, ctx, repo, "poem-older-01", base)
	newer := seedPoem(t, ctx, repo, "poem-newer-01", base.Add(30*time.Minute))

	ok, err := repo.SetStatusGuarded(ctx, nil, older.ID, domain.PoemStatusActive, domain.PoemStatusComplete)
	if err != nil || !ok {
		t.Fatalf("SetStatusGuarded: ok=%v err=%v", ok, err)
	}

	all, err := repo.List(ctx, nil, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List: expected 2 poems, got %d", len(all))
	}
	if all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Fatalf("List: expected created_at DESC order, got %s then %s", all[0].ID, all[1].ID)
	}

	completed, err := repo.List(ctx, nil, domain.PoemStatusComplete)
	if err != nil {
		t.Fatalf("List (filter): %v", err)
	}
	if len(completed) != 1 || completed[0].ID != older.ID {
		t.Fatalf("List (filter): unexpected result: %+v", completed)
	}
}

func TestPoemRepoBumpVersion(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPoemRepo(db, testutil.Logger(t))
	ctx := context.Background()

	p := seedPoem(t, ctx, repo, "poem-cas-0001", time.Now().UTC())

	ok, err := repo.BumpVersion(ctx, nil, p.ID, 0)
	if err != nil {
		t.Fatalf("BumpVersion: %v", err)
	}
	if !ok {
		t.Fatalf("BumpVersion: expected match on version 0")
	}

	got, err := repo.GetByID(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("BumpVersion: expected version 1, got %d", got.Version)
	}

	// Stale expected version must not match and must not change the row.
	ok, err = repo.BumpVersion(ctx, nil, p.ID, 0)
	if err != nil {
		t.Fatalf("BumpVersion (stale): %v", err)
	}
	if ok {
		t.Fatalf("BumpVersion (stale): expected no match")
	}
	got, err = repo.GetByID(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("BumpVersion (stale): version moved to %d", got.Version)
	}

	ok, err = repo.BumpVersion(ctx, nil, "missing-id-00", 0)
	if err != nil {
		t.Fatalf("BumpVersion (missing): %v", err)
	}
	if ok {
		t.Fatalf("BumpVersion (missing): expected no match")
	}
}

func TestPoemRepoStatusGuard(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPoemRepo(db, testutil.Logger(t))
	ctx := context.Background()

	p := seedPoem(t, ctx, repo, "poem-guard-01", time.Now().UTC())

	// revealed requires complete, so guarding on complete must fail now.
	ok, err := repo.SetStatusGuarded(ctx, nil, p.ID, domain.PoemStatusComplete, domain.PoemStatusRevealed)
	if err != nil {
		t.Fatalf("SetStatusGuarded: %v", err)
	}
	if ok {
		t.Fatalf("SetStatusGuarded: guard should not match an active poem")
	}

	ok, err = repo.SetStatusGuarded(ctx, nil, p.ID, domain.PoemStatusActive, domain.PoemStatusComplete)
	if err != nil || !ok {
		t.Fatalf("SetStatusGuarded (active->complete): ok=%v err=%v", ok, err)
	}
	ok, err = repo.SetStatusGuarded(ctx, nil, p.ID, domain.PoemStatusComplete, domain.PoemStatusRevealed)
	if err != nil || !ok {
		t.Fatalf("SetStatusGuarded (complete->revealed): ok=%v err=%v", ok, err)
	}

	// Terminal: no guard can move a revealed poem back.
	ok, err = repo.SetStatusGuarded(ctx, nil, p.ID, domain.PoemStatusActive, domain.PoemStatusComplete)
	if err != nil {
		t.Fatalf("SetStatusGuarded (terminal): %v", err)
	}
	if ok {
		t.Fatalf("SetStatusGuarded (terminal): revealed poem changed status")
	}
}

func TestPoemRepoSetTitle(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPoemRepo(db, testutil.Logger(t))
	ctx := context.Background()

	p := seedPoem(t, ctx, repo, "poem-title-01", time.Now().UTC())

	ok, err := repo.SetTitle(ctx, nil, p.ID, "Moon beneath Reflection")
	if err != nil || !ok {
		t.Fatalf("SetTitle: ok=%v err=%v", ok, err)
	}
	got, err := repo.GetByID(ctx, nil, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Moon beneath Reflection" {
		t.Fatalf("SetTitle: unexpected title %q", got.Title)
	}

	ok, err = repo.SetTitle(ctx, nil, "missing-id-00", "x")
	if err != nil {
		t.Fatalf("SetTitle (missing): %v", err)
	}
	if ok {
		t.Fatalf("SetTitle (missing): expected no match")
	}
}
