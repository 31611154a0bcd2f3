package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
)

func versionColumns() []string {
	return []string{
		"id", "faq_id", "version", "change_summary",
		"questions", "answers", "status", "changed_by", "changed_at",
	}
}

func sampleVersionRow(t *testing.T, id int64, version int, summary string) []driver.Value {
	return []driver.Value{
		id, int64(3), version, summary,
		mustJSON(t, map[string]string{"en": "Old question text goes here?"}),
		mustJSON(t, map[string]string{"en": "Old answer text goes here, long enough to be plausible."}),
		"draft", "u1", time.Now(),
	}
}

func TestVersionRepository_Append(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewVersionRepository(db)

	rec := &models.FAQVersion{
		FAQID:         3,
		Version:       4,
		ChangeSummary: "Updated",
		Questions:     map[string]string{"en": "How to reset the camera?"},
		Answers:       map[string]string{"en": "Hold the reset button for ten seconds until it beeps."},
		Status:        "draft",
		ChangedBy:     "u1",
	}

	mock.ExpectBegin()
	mock.ExpectExec(`
		INSERT INTO faq_versions
		(faq_id, version, change_summary, questions, answers, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`).
		WithArgs(
			int64(3), 4, "Updated",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "draft", "u1", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Append(ctx, rec)

	require.NoError(t, err)
	assert.False(t, rec.ChangedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVersionRepository_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Новые версии идут первыми", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVersionRepository(db)

		mock.ExpectQuery(`
			SELECT * FROM faq_versions
			WHERE faq_id = $1
			ORDER BY version DESC
			LIMIT $2
		`).
			WithArgs(int64(3), 10).
			WillReturnRows(sqlmock.NewRows(versionColumns()).
				AddRow(sampleVersionRow(t, 2, 3, "Updated")...).
				AddRow(sampleVersionRow(t, 1, 2, "Restored from version 1")...))

		records, err := repo.History(ctx, 3, 10)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 3, records[0].Version)
		assert.Equal(t, 2, records[1].Version)
	})

	t.Run("Нулевой limit заменяется на 10", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVersionRepository(db)

		mock.ExpectQuery(`
			SELECT * FROM faq_versions
			WHERE faq_id = $1
			ORDER BY version DESC
			LIMIT $2
		`).
			WithArgs(int64(3), 10).
			WillReturnRows(sqlmock.NewRows(versionColumns()))

		_, err := repo.History(ctx, 3, 0)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestVersionRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Существующая версия", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVersionRepository(db)

		mock.ExpectQuery(`SELECT * FROM faq_versions WHERE faq_id = $1 AND version = $2`).
			WithArgs(int64(3), 2).
			WillReturnRows(sqlmock.NewRows(versionColumns()).
				AddRow(sampleVersionRow(t, 1, 2, "Updated")...))

		rec, err := repo.Get(ctx, 3, 2)

		require.NoError(t, err)
		assert.Equal(t, 2, rec.Version)
		assert.Equal(t, "Old question text goes here?", rec.Questions["en"])
	})

	t.Run("Несуществующая версия", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewVersionRepository(db)

		mock.ExpectQuery(`SELECT * FROM faq_versions WHERE faq_id = $1 AND version = $2`).
			WithArgs(int64(3), 9).
			WillReturnRows(sqlmock.NewRows(versionColumns()))

		_, err := repo.Get(ctx, 3, 9)

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
