package memory

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		mockDB.Close()
	})
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "lowercases and strips punctuation",
			text: "That matter has been in abeyance, for years!",
			want: "that matter has been in abeyance for years",
		},
		{
			name: "collapses whitespace",
			text: "  hello \t  world \n",
			want: "hello world",
		},
		{
			name: "keeps digits",
			text: "Chapter 7 is done.",
			want: "chapter 7 is done",
		},
		{
			name: "sinhala text is preserved",
			text: "එම කාරණය අත් හිටලා තිබේ.",
			want: "එම කාරණය අත් හිටලා තිබේ",
		},
		{
			name: "punctuation only",
			text: "!?.,",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.text))
		})
	}
}

func TestDBRepository_FindBySource(t *testing.T) {
	now := time.Now()
	query := regexp.QuoteMeta("SELECT * FROM translation_memory WHERE normalized_source = ?")

	t.Run("returns the matching pair", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).
			WithArgs("that matter has been in abeyance for years").
			WillReturnRows(sqlmock.NewRows([]string{"normalized_source", "source_text", "sinhala_text", "created_at", "updated_at"}).
				AddRow("that matter has been in abeyance for years", "That matter has been in abeyance for years.", "එම කාරණය වසර ගණනාවක් අත් හිටලා තිබේ.", now, now))

		pair, err := NewDBRepository(db).FindBySource(context.Background(), "That matter has been IN ABEYANCE for years!")
		require.NoError(t, err)
		require.NotNil(t, pair)
		assert.Equal(t, "That matter has been in abeyance for years.", pair.SourceText)
		assert.Equal(t, "එම කාරණය වසර ගණනාවක් අත් හිටලා තිබේ.", pair.SinhalaText)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil on no rows", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).
			WithArgs("unknown sentence").
			WillReturnRows(sqlmock.NewRows([]string{"normalized_source", "source_text", "sinhala_text", "created_at", "updated_at"}))

		pair, err := NewDBRepository(db).FindBySource(context.Background(), "unknown sentence")
		require.NoError(t, err)
		assert.Nil(t, pair)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(query).
			WillReturnError(errors.New("connection reset"))

		pair, err := NewDBRepository(db).FindBySource(context.Background(), "anything")
		require.Error(t, err)
		assert.ErrorContains(t, err, "connection reset")
		assert.Nil(t, pair)
	})
}

func TestDBRepository_FindAll(t *testing.T) {
	now := time.Now()
	query := regexp.QuoteMeta("SELECT * FROM translation_memory ORDER BY source_text")

	db, mock := newMockDB(t)
	mock.ExpectQuery(query).
		WillReturnRows(sqlmock.NewRows([]string{"normalized_source", "source_text", "sinhala_text", "created_at", "updated_at"}).
			AddRow("good morning", "Good morning.", "සුබ උදෑසනක්.", now, now).
			AddRow("thank you very much", "Thank you very much.", "බොහොම ස්තූතියි.", now, now))

	pairs, err := NewDBRepository(db).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "Good morning.", pairs[0].SourceText)
	assert.Equal(t, "Thank you very much.", pairs[1].SourceText)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_Upsert(t *testing.T) {
	t.Run("inserts with the normalized key", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO translation_memory").
			WithArgs("good morning", "Good morning.", "සුබ උදෑසනක්.").
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := NewDBRepository(db).Upsert(context.Background(), &SentencePair{
			SourceText:  "Good morning.",
			SinhalaText: "සුබ උදෑසනක්.",
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps exec errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("INSERT INTO translation_memory").
			WillReturnError(errors.New("table missing"))

		err := NewDBRepository(db).Upsert(context.Background(), &SentencePair{
			SourceText:  "Good morning.",
			SinhalaText: "සුබ උදෑසනක්.",
		})
		require.Error(t, err)
		assert.ErrorContains(t, err, "table missing")
	})
}
