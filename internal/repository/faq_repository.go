package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
)

type FAQRepositoryImpl struct {
	db *sqlx.DB
}

type CreateFAQRequest struct {
	ProductType      string            `json:"productType" validate:"required,oneof=wireless wired eseries"`
	Scenario         string            `json:"scenario" validate:"required,oneof=home commercial industrial"`
	Questions        map[string]string `json:"questions" validate:"required"`
	Answers          map[string]string `json:"answers" validate:"required"`
	FeaturedImageURL *string           `json:"featuredImageUrl" validate:"omitempty,url"`
	SEOTitle         *string           `json:"seoTitle" validate:"omitempty,max=255"`
	SEODescription   *string           `json:"seoDescription"`
	Tags             []string          `json:"tags"`
	Status           string            `json:"status" validate:"omitempty,oneof=draft published"`
}

// OptString различает отсутствующее поле и явный null в JSON-запросе:
// отсутствие оставляет значение как есть, null очищает его.
type OptString struct {
	Set   bool
	Value *string
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type UpdateFAQRequest struct {
	ID               int64             `json:"id"`
	ProductType      *string           `json:"productType" validate:"omitempty,oneof=wireless wired eseries"`
	Scenario         *string           `json:"scenario" validate:"omitempty,oneof=home commercial industrial"`
	Questions        map[string]string `json:"questions"`
	Answers          map[string]string `json:"answers"`
	FeaturedImageURL OptString         `json:"featuredImageUrl"`
	SEOTitle         OptString         `json:"seoTitle"`
	SEODescription   OptString         `json:"seoDescription"`
	Tags             []string          `json:"tags"`
	Status           *string           `json:"status" validate:"omitempty,oneof=draft published"`
	ChangeSummary    string            `json:"changeSummary" validate:"omitempty,max=500"`
}

type ListFAQFilter struct {
	Status      string
	ProductType string
	Scenario    string
	Search      string
	Page        int
	Limit       int
	Sort        string // created_at | updated_at
	Order       string // asc | desc
}

type faqRow struct {
	ID               int64          `db:"id"`
	Slug             string         `db:"slug"`
	ProductType      string         `db:"product_type"`
	Scenario         string         `db:"scenario"`
	Status           string         `db:"status"`
	Version          int            `db:"version"`
	Questions        string         `db:"questions"`
	Answers          string         `db:"answers"`
	FeaturedImageURL sql.NullString `db:"featured_image_url"`
	SEOTitle         sql.NullString `db:"seo_title"`
	SEODescription   sql.NullString `db:"seo_description"`
	Tags             sql.NullString `db:"tags"`
	PublishedAt      sql.NullTime   `db:"published_at"`
	CreatedBy        string         `db:"created_by"`
	UpdatedBy        string         `db:"updated_by"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func NewFAQRepository(db *sqlx.DB) *FAQRepositoryImpl {
	return &FAQRepositoryImpl{db: db}
}

func (r *faqRow) toModel() (*models.FAQ, error) {
	questions, err := unmarshalLangMap(r.Questions)
	if err != nil {
		return nil, err
	}
	answers, err := unmarshalLangMap(r.Answers)
	if err != nil {
		return nil, err
	}
	tags, err := unmarshalTags(r.Tags)
	if err != nil {
		return nil, err
	}

	faq := &models.FAQ{
		ID:          r.ID,
		Slug:        r.Slug,
		ProductType: r.ProductType,
		Scenario:    r.Scenario,
		Status:      r.Status,
		Version:     r.Version,
		Questions:   questions,
		Answers:     answers,
		Tags:        tags,
		CreatedBy:   r.CreatedBy,
		UpdatedBy:   r.UpdatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	if r.FeaturedImageURL.Valid {
		faq.FeaturedImageURL = &r.FeaturedImageURL.String
	}
	if r.SEOTitle.Valid {
		faq.SEOTitle = &r.SEOTitle.String
	}
	if r.SEODescription.Valid {
		faq.SEODescription = &r.SEODescription.String
	}
	if r.PublishedAt.Valid {
		t := r.PublishedAt.Time
		faq.PublishedAt = &t
	}

	return faq, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *FAQRepositoryImpl) CreateWithVersion(ctx context.Context, faq *models.FAQ, rec *models.FAQVersion) error {
	questions, err := marshalLangMap(faq.Questions)
	if err != nil {
		return err
	}
	answers, err := marshalLangMap(faq.Answers)
	if err != nil {
		return err
	}
	tags, err := marshalTags(faq.Tags)
	if err != nil {
		return err
	}

	now := time.Now()
	faq.CreatedAt = now
	faq.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", wrapDBErr(err))
	}
	defer tx.Rollback()

	query := `
		INSERT INTO faqs
		(slug, product_type, scenario, status, version, questions, answers,
		 featured_image_url, seo_title, seo_description, tags, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	err = tx.QueryRowContext(ctx, query,
		faq.Slug, faq.ProductType, faq.Scenario, faq.Status, faq.Version,
		questions, answers,
		nullString(faq.FeaturedImageURL), nullString(faq.SEOTitle), nullString(faq.SEODescription),
		tags, faq.CreatedBy, faq.UpdatedBy, faq.CreatedAt, faq.UpdatedAt,
	).Scan(&faq.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании FAQ: %w", wrapDBErr(err))
	}

	rec.FAQID = faq.ID
	if err := insertVersionTx(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", wrapDBErr(err))
	}

	return nil
}

func (r *FAQRepositoryImpl) UpdateWithVersion(ctx context.Context, faq *models.FAQ, rec *models.FAQVersion) error {
	questions, err := marshalLangMap(faq.Questions)
	if err != nil {
		return err
	}
	answers, err := marshalLangMap(faq.Answers)
	if err != nil {
		return err
	}
	tags, err := marshalTags(faq.Tags)
	if err != nil {
		return err
	}

	faq.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", wrapDBErr(err))
	}
	defer tx.Rollback()

	query := `
		UPDATE faqs SET
			product_type = $1,
			scenario = $2,
			status = $3,
			version = $4,
			questions = $5,
			answers = $6,
			featured_image_url = $7,
			seo_title = $8,
			seo_description = $9,
			tags = $10,
			updated_by = $11,
			updated_at = $12
		WHERE id = $13
	`

	result, err := tx.ExecContext(ctx, query,
		faq.ProductType, faq.Scenario, faq.Status, faq.Version,
		questions, answers,
		nullString(faq.FeaturedImageURL), nullString(faq.SEOTitle), nullString(faq.SEODescription),
		tags, faq.UpdatedBy, faq.UpdatedAt, faq.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении FAQ: %w", wrapDBErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("FAQ %d: %w", faq.ID, apperr.ErrNotFound)
	}

	if err := insertVersionTx(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", wrapDBErr(err))
	}

	return nil
}

func (r *FAQRepositoryImpl) GetByID(ctx context.Context, id int64) (*models.FAQ, error) {
	query := `SELECT * FROM faqs WHERE id = $1`

	var row faqRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FAQ %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении FAQ: %w", wrapDBErr(err))
	}

	return row.toModel()
}

func (r *FAQRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.FAQ, error) {
	query := `SELECT * FROM faqs WHERE slug = $1`

	var row faqRow
	err := r.db.GetContext(ctx, &row, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FAQ %q: %w", slug, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении FAQ: %w", wrapDBErr(err))
	}

	return row.toModel()
}

// Delete удаляет только строку faqs. Записи версий и картинки не каскадируются
// намеренно: осиротевшие строки допустимы.
func (r *FAQRepositoryImpl) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM faqs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("ошибка при удалении FAQ: %w", wrapDBErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

// Publish ставит status=published и всегда обновляет published_at,
// в том числе при повторной публикации. Версия не меняется.
func (r *FAQRepositoryImpl) Publish(ctx context.Context, id int64, publishedAt time.Time) error {
	query := `
		UPDATE faqs SET
			status = 'published',
			published_at = $1,
			updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, publishedAt, id)
	if err != nil {
		return fmt.Errorf("ошибка при публикации FAQ: %w", wrapDBErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("FAQ %d: %w", id, apperr.ErrNotFound)
	}

	return nil
}

// Unpublish возвращает запись в draft. published_at сохраняется -
// это время последней публикации.
func (r *FAQRepositoryImpl) Unpublish(ctx context.Context, id int64) error {
	query := `
		UPDATE faqs SET
			status = 'draft',
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка при снятии с публикации: %w", wrapDBErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("FAQ %d: %w", id, apperr.ErrNotFound)
	}

	return nil
}

func (r *FAQRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT COUNT(*) FROM faqs WHERE slug = $1`

	var count int
	err := r.db.GetContext(ctx, &count, query, slug)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке slug: %w", wrapDBErr(err))
	}

	return count > 0, nil
}

// List возвращает страницу записей и общее количество. Поиск идет подстрокой
// по сериализованному JSON вопросов, то есть сразу по всем языкам.
func (r *FAQRepositoryImpl) List(ctx context.Context, filter ListFAQFilter) ([]*models.FAQ, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ProductType != "" {
		args = append(args, filter.ProductType)
		conditions = append(conditions, fmt.Sprintf("product_type = $%d", len(args)))
	}
	if filter.Scenario != "" {
		args = append(args, filter.Scenario)
		conditions = append(conditions, fmt.Sprintf("scenario = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("questions ILIKE $%d", len(args)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM faqs` + whereClause

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете FAQ: %w", wrapDBErr(err))
	}

	sortColumn := "updated_at"
	if filter.Sort == "created_at" {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	args = append(args, limit)
	limitPos := len(args)
	args = append(args, (page-1)*limit)
	offsetPos := len(args)

	listQuery := fmt.Sprintf(
		`SELECT * FROM faqs%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		whereClause, sortColumn, direction, limitPos, offsetPos,
	)

	var rows []faqRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("ошибка при получении списка FAQ: %w", wrapDBErr(err))
	}

	faqs := make([]*models.FAQ, 0, len(rows))
	for i := range rows {
		faq, err := rows[i].toModel()
		if err != nil {
			return nil, 0, err
		}
		faqs = append(faqs, faq)
	}

	return faqs, total, nil
}
