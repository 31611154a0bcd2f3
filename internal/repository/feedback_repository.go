package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"faqcenter/internal/models"
)

type FeedbackRepositoryImpl struct {
	db *sqlx.DB
}

type feedbackRow struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	Language  string    `db:"language"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type templateRow struct {
	ID         int64     `db:"id"`
	Category   string    `db:"category"`
	Keywords   string    `db:"keywords"`
	TitleEn    string    `db:"title_en"`
	TitleZh    string    `db:"title_zh"`
	ResponseEn string    `db:"response_en"`
	ResponseZh string    `db:"response_zh"`
	Enabled    bool      `db:"enabled"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type autoReplyLogRow struct {
	ID               int64     `db:"id"`
	FeedbackID       int64     `db:"feedback_id"`
	TemplateID       int64     `db:"template_id"`
	UserEmail        string    `db:"user_email"`
	Category         string    `db:"category"`
	ResponseLanguage string    `db:"response_language"`
	Status           string    `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
}

func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepositoryImpl {
	return &FeedbackRepositoryImpl{db: db}
}

func (r *feedbackRow) toModel() *models.Feedback {
	return &models.Feedback{
		ID:        r.ID,
		Email:     r.Email,
		Message:   r.Message,
		Language:  r.Language,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *templateRow) toModel() (*models.AutoReplyTemplate, error) {
	var keywords []string
	if r.Keywords != "" {
		if err := json.Unmarshal([]byte(r.Keywords), &keywords); err != nil {
			return nil, fmt.Errorf("ошибка десериализации ключевых слов шаблона %d: %w", r.ID, err)
		}
	}

	return &models.AutoReplyTemplate{
		ID:         r.ID,
		Category:   r.Category,
		Keywords:   keywords,
		TitleEn:    r.TitleEn,
		TitleZh:    r.TitleZh,
		ResponseEn: r.ResponseEn,
		ResponseZh: r.ResponseZh,
		Enabled:    r.Enabled,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

func (r *autoReplyLogRow) toModel() *models.AutoReplyLog {
	return &models.AutoReplyLog{
		ID:               r.ID,
		FeedbackID:       r.FeedbackID,
		TemplateID:       r.TemplateID,
		UserEmail:        r.UserEmail,
		Category:         r.Category,
		ResponseLanguage: r.ResponseLanguage,
		Status:           r.Status,
		CreatedAt:        r.CreatedAt,
	}
}

func (r *FeedbackRepositoryImpl) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	now := time.Now()
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	query := `
		INSERT INTO feedbacks (email, message, language, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		feedback.Email, feedback.Message, feedback.Language, feedback.Status,
		feedback.CreatedAt, feedback.UpdatedAt,
	).Scan(&feedback.ID)
	if err != nil {
		return fmt.Errorf("ошибка при создании отзыва: %w", wrapDBErr(err))
	}

	return nil
}

func (r *FeedbackRepositoryImpl) ListFeedbacks(ctx context.Context) ([]*models.Feedback, error) {
	query := `SELECT * FROM feedbacks ORDER BY created_at DESC`

	var rows []feedbackRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении отзывов: %w", wrapDBErr(err))
	}

	feedbacks := make([]*models.Feedback, 0, len(rows))
	for i := range rows {
		feedbacks = append(feedbacks, rows[i].toModel())
	}

	return feedbacks, nil
}

func (r *FeedbackRepositoryImpl) EnabledTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error) {
	query := `SELECT * FROM auto_reply_templates WHERE enabled = TRUE ORDER BY id`

	return r.selectTemplates(ctx, query)
}

func (r *FeedbackRepositoryImpl) AllTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error) {
	query := `SELECT * FROM auto_reply_templates ORDER BY id`

	return r.selectTemplates(ctx, query)
}

func (r *FeedbackRepositoryImpl) selectTemplates(ctx context.Context, query string) ([]*models.AutoReplyTemplate, error) {
	var rows []templateRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении шаблонов: %w", wrapDBErr(err))
	}

	templates := make([]*models.AutoReplyTemplate, 0, len(rows))
	for i := range rows {
		template, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	return templates, nil
}

func (r *FeedbackRepositoryImpl) LogAutoReply(ctx context.Context, log *models.AutoReplyLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO auto_reply_logs
		(feedback_id, template_id, user_email, category, response_language, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		log.FeedbackID, log.TemplateID, log.UserEmail,
		log.Category, log.ResponseLanguage, log.Status, log.CreatedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("ошибка при записи лога автоответа: %w", wrapDBErr(err))
	}

	return nil
}

func (r *FeedbackRepositoryImpl) LogsForFeedback(ctx context.Context, feedbackID int64) ([]*models.AutoReplyLog, error) {
	query := `SELECT * FROM auto_reply_logs WHERE feedback_id = $1 ORDER BY created_at`

	var rows []autoReplyLogRow
	err := r.db.SelectContext(ctx, &rows, query, feedbackID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении логов автоответов: %w", wrapDBErr(err))
	}

	logs := make([]*models.AutoReplyLog, 0, len(rows))
	for i := range rows {
		logs = append(logs, rows[i].toModel())
	}

	return logs, nil
}
