// Package memory provides the curated translation memory: exact English
// sentences with pre-approved Sinhala translations, consulted before the
// neural model is invoked.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/jmoiron/sqlx"
)

// SentencePair is one curated sentence translation.
type SentencePair struct {
	NormalizedSource string    `db:"normalized_source"`
	SourceText       string    `db:"source_text"`
	SinhalaText      string    `db:"sinhala_text"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Repository defines operations over the translation memory.
type Repository interface {
	FindBySource(ctx context.Context, text string) (*SentencePair, error)
	FindAll(ctx context.Context) ([]SentencePair, error)
	Upsert(ctx context.Context, pair *SentencePair) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindBySource returns the sentence pair matching the normalized form of
// text, or nil if the sentence is not in the memory.
func (r *DBRepository) FindBySource(ctx context.Context, text string) (*SentencePair, error) {
	var pair SentencePair
	err := r.db.GetContext(ctx, &pair,
		"SELECT * FROM translation_memory WHERE normalized_source = ?", Normalize(text))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(translation_memory) > %w", err)
	}
	return &pair, nil
}

// FindAll returns every sentence pair, ordered by source text.
func (r *DBRepository) FindAll(ctx context.Context) ([]SentencePair, error) {
	var pairs []SentencePair
	if err := r.db.SelectContext(ctx, &pairs,
		"SELECT * FROM translation_memory ORDER BY source_text"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(translation_memory) > %w", err)
	}
	return pairs, nil
}

// Upsert inserts or updates a sentence pair keyed by its normalized source.
func (r *DBRepository) Upsert(ctx context.Context, pair *SentencePair) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO translation_memory (normalized_source, source_text, sinhala_text)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE source_text = VALUES(source_text), sinhala_text = VALUES(sinhala_text)`,
		Normalize(pair.SourceText), pair.SourceText, pair.SinhalaText)
	if err != nil {
		return fmt.Errorf("db.ExecContext(upsert translation_memory) > %w", err)
	}
	return nil
}

// Normalize reduces a sentence to its lookup key: lowercased, punctuation
// removed, whitespace collapsed. Two sentences differing only in casing or
// punctuation share a key.
func Normalize(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				builder.WriteRune(' ')
				lastSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			builder.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimRight(builder.String(), " ")
}
