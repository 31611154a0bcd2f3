package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
)

type ImageRepositoryImpl struct {
	db *sqlx.DB
}

type imageRow struct {
	ID           int64          `db:"id"`
	FAQID        int64          `db:"faq_id"`
	ImageURL     string         `db:"image_url"`
	ImageKey     string         `db:"image_key"`
	AltText      sql.NullString `db:"alt_text"`
	Caption      sql.NullString `db:"caption"`
	DisplayOrder int            `db:"display_order"`
	UploadedBy   string         `db:"uploaded_by"`
	CreatedAt    time.Time      `db:"created_at"`
}

func NewImageRepository(db *sqlx.DB) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

func (r *imageRow) toModel() *models.FAQImage {
	image := &models.FAQImage{
		ID:           r.ID,
		FAQID:        r.FAQID,
		ImageURL:     r.ImageURL,
		ImageKey:     r.ImageKey,
		DisplayOrder: r.DisplayOrder,
		UploadedBy:   r.UploadedBy,
		CreatedAt:    r.CreatedAt,
	}
	if r.AltText.Valid {
		image.AltText = &r.AltText.String
	}
	if r.Caption.Valid {
		image.Caption = &r.Caption.String
	}
	return image
}

func (r *ImageRepositoryImpl) Create(ctx context.Context, image *models.FAQImage) error {
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO faq_images
		(faq_id, image_url, image_key, alt_text, caption, display_order, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		image.FAQID, image.ImageURL, image.ImageKey,
		nullString(image.AltText), nullString(image.Caption),
		image.DisplayOrder, image.UploadedBy, image.CreatedAt,
	).Scan(&image.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании изображения: %w", wrapDBErr(err))
	}

	return nil
}

func (r *ImageRepositoryImpl) GetByID(ctx context.Context, imageID int64) (*models.FAQImage, error) {
	query := `SELECT * FROM faq_images WHERE id = $1`

	var row imageRow
	err := r.db.GetContext(ctx, &row, query, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("изображение %d: %w", imageID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении изображения: %w", wrapDBErr(err))
	}

	return row.toModel(), nil
}

// GetByFAQID возвращает изображения в порядке display_order,
// равные значения упорядочиваются по id (порядок вставки).
func (r *ImageRepositoryImpl) GetByFAQID(ctx context.Context, faqID int64) ([]*models.FAQImage, error) {
	query := `SELECT * FROM faq_images WHERE faq_id = $1 ORDER BY display_order ASC, id ASC`

	var rows []imageRow
	err := r.db.SelectContext(ctx, &rows, query, faqID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении изображений: %w", wrapDBErr(err))
	}

	images := make([]*models.FAQImage, 0, len(rows))
	for i := range rows {
		images = append(images, rows[i].toModel())
	}

	return images, nil
}

func (r *ImageRepositoryImpl) MaxDisplayOrder(ctx context.Context, faqID int64) (int, error) {
	query := `SELECT COALESCE(MAX(display_order), 0) FROM faq_images WHERE faq_id = $1`

	var maxOrder int
	err := r.db.GetContext(ctx, &maxOrder, query, faqID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении display_order: %w", wrapDBErr(err))
	}

	return maxOrder, nil
}

func (r *ImageRepositoryImpl) Update(ctx context.Context, image *models.FAQImage) error {
	query := `
		UPDATE faq_images SET
			alt_text = $1,
			caption = $2,
			display_order = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		nullString(image.AltText), nullString(image.Caption), image.DisplayOrder, image.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении изображения: %w", wrapDBErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("изображение %d: %w", image.ID, apperr.ErrNotFound)
	}

	return nil
}

func (r *ImageRepositoryImpl) Delete(ctx context.Context, imageID int64) (bool, error) {
	query := `DELETE FROM faq_images WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, imageID)
	if err != nil {
		return false, fmt.Errorf("ошибка при удалении изображения: %w", wrapDBErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}
