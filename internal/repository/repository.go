package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"faqcenter/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
}

type FAQRepository interface {
	// CreateWithVersion и UpdateWithVersion пишут запись и снимок версии
	// в одной транзакции: счетчик версий и журнал не могут разойтись.
	CreateWithVersion(ctx context.Context, faq *models.FAQ, rec *models.FAQVersion) error
	UpdateWithVersion(ctx context.Context, faq *models.FAQ, rec *models.FAQVersion) error
	GetByID(ctx context.Context, id int64) (*models.FAQ, error)
	GetBySlug(ctx context.Context, slug string) (*models.FAQ, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Publish(ctx context.Context, id int64, publishedAt time.Time) error
	Unpublish(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFAQFilter) ([]*models.FAQ, int, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type VersionRepository interface {
	Append(ctx context.Context, rec *models.FAQVersion) error
	History(ctx context.Context, faqID int64, limit int) ([]*models.FAQVersion, error)
	Get(ctx context.Context, faqID int64, version int) (*models.FAQVersion, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.FAQImage) error
	GetByID(ctx context.Context, imageID int64) (*models.FAQImage, error)
	GetByFAQID(ctx context.Context, faqID int64) ([]*models.FAQImage, error)
	MaxDisplayOrder(ctx context.Context, faqID int64) (int, error)
	Update(ctx context.Context, image *models.FAQImage) error
	Delete(ctx context.Context, imageID int64) (bool, error)
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	ListFeedbacks(ctx context.Context) ([]*models.Feedback, error)
	EnabledTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error)
	AllTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error)
	LogAutoReply(ctx context.Context, log *models.AutoReplyLog) error
	LogsForFeedback(ctx context.Context, feedbackID int64) ([]*models.AutoReplyLog, error)
}

type Repository struct {
	User     UserRepository
	FAQ      FAQRepository
	Version  VersionRepository
	Image    ImageRepository
	Feedback FeedbackRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		FAQ:      NewFAQRepository(db),
		Version:  NewVersionRepository(db),
		Image:    NewImageRepository(db),
		Feedback: NewFeedbackRepository(db),
	}
}
