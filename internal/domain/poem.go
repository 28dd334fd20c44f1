package domain

import (
	"time"

	"github.com/google/uuid"
)

// Poem states. A poem only ever moves forward: active -> complete -> revealed.
const (
	PoemStatusActive   = "active"
	PoemStatusComplete = "complete"
	PoemStatusRevealed = "revealed"
)

// validPoemStatuses is the set of recognized poem status values.
var validPoemStatuses = map[string]bool{
	PoemStatusActive:   true,
	PoemStatusComplete: true,
	PoemStatusRevealed: true,
}

// ValidPoemStatus reports whether s is a recognized status value.
func ValidPoemStatus(s string) bool { return validPoemStatuses[s] }

// allowedTotalLines is the allow-list of poem lengths.
var allowedTotalLines = map[int]bool{5: true, 7: true, 11: true, 13: true}

// AllowedTotalLines reports whether n is a permitted poem length.
func AllowedTotalLines(n int) bool { return allowedTotalLines[n] }

// Poem is a collaborative poem. Version counts successful line appends
// since creation (the seed line does not count) and backs the
// optimistic-locking append protocol.
type Poem struct {
	ID         string    `gorm:"type:varchar(12);primaryKey" json:"id"`
	TotalLines int       `gorm:"column:total_lines;not null" json:"total_lines"`
	Status     string    `gorm:"column:status;not null;index" json:"status"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	SeedLine   string    `gorm:"column:seed_line;not null" json:"seed_line"`
	Version    int       `gorm:"column:version;not null" json:"version"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Poem) TableName() string { return "poem" }

// PoemLine is one contributed line. VisibleHint is computed once at
// insert time and stored, so hints stay stable across algorithm changes.
type PoemLine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PoemID      string    `gorm:"type:varchar(12);not null;index;uniqueIndex:idx_poem_line_number,priority:1" json:"poem_id"`
	Poem        *Poem     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PoemID;references:ID" json:"poem,omitempty"`
	LineNumber  int       `gorm:"column:line_number;not null;uniqueIndex:idx_poem_line_number,priority:2" json:"line_number"`
	FullText    string    `gorm:"column:full_text;not null" json:"full_text"`
	VisibleHint string    `gorm:"column:visible_hint;not null" json:"visible_hint"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (PoemLine) TableName() string { return "poem_line" }
