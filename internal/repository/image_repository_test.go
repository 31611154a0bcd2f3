package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
)

func imageColumns() []string {
	return []string{
		"id", "faq_id", "image_url", "image_key", "alt_text",
		"caption", "display_order", "uploaded_by", "created_at",
	}
}

func TestImageRepository_Create(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewImageRepository(db)

	altText := "Вид камеры спереди"
	image := &models.FAQImage{
		FAQID:        3,
		ImageURL:     "http://localhost:9000/faq-images/faq/3/1-camera.png",
		ImageKey:     "faq/3/1-camera.png",
		AltText:      &altText,
		DisplayOrder: 1,
		UploadedBy:   "u1",
	}

	mock.ExpectQuery(`
		INSERT INTO faq_images
		(faq_id, image_url, image_key, alt_text, caption, display_order, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`).
		WithArgs(
			int64(3), image.ImageURL, image.ImageKey,
			sqlmock.AnyArg(), sqlmock.AnyArg(), 1, "u1", sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	err := repo.Create(ctx, image)

	require.NoError(t, err)
	assert.Equal(t, int64(4), image.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImageRepository_GetByFAQID(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewImageRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT * FROM faq_images WHERE faq_id = $1 ORDER BY display_order ASC, id ASC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(imageColumns()).
			AddRow(int64(1), int64(3), "http://x/1.png", "faq/3/1.png", nil, nil, 1, "u1", now).
			AddRow(int64(2), int64(3), "http://x/2.png", "faq/3/2.png", "alt", nil, 2, "u1", now))

	images, err := repo.GetByFAQID(ctx, 3)

	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 1, images[0].DisplayOrder)
	assert.Equal(t, 2, images[1].DisplayOrder)
	assert.Nil(t, images[0].AltText)
	require.NotNil(t, images[1].AltText)
	assert.Equal(t, "alt", *images[1].AltText)
}

func TestImageRepository_MaxDisplayOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Есть изображения", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewImageRepository(db)

		mock.ExpectQuery(`SELECT COALESCE(MAX(display_order), 0) FROM faq_images WHERE faq_id = $1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(2))

		maxOrder, err := repo.MaxDisplayOrder(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, 2, maxOrder)
	})

	t.Run("Изображений нет", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewImageRepository(db)

		mock.ExpectQuery(`SELECT COALESCE(MAX(display_order), 0) FROM faq_images WHERE faq_id = $1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0))

		maxOrder, err := repo.MaxDisplayOrder(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, 0, maxOrder)
	})
}

func TestImageRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Обновление несуществующего изображения", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewImageRepository(db)

		mock.ExpectExec(`
			UPDATE faq_images SET
				alt_text = $1,
				caption = $2,
				display_order = $3
			WHERE id = $4
		`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, &models.FAQImage{ID: 99})

		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestImageRepository_Delete(t *testing.T) {
	ctx := context.Background()

	db, mock := newMockDB(t)
	repo := NewImageRepository(db)

	mock.ExpectExec(`DELETE FROM faq_images WHERE id = $1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Delete(ctx, 4)

	require.NoError(t, err)
	assert.True(t, removed)
}
