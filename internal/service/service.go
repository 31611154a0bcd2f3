package service

import (
	"context"

	"faqcenter/internal/config"
	"faqcenter/internal/repository"
	"faqcenter/internal/storage"
)

// Mailer - внешний коллаборатор доставки писем. Сервису отзывов не важно,
// как именно письмо уходит.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type Service struct {
	FAQ      FAQService
	Feedback FeedbackService
	Auth     AuthService
}

func NewService(rep *repository.Repository, cfg *config.Config, blobStore storage.Storage, mailer Mailer) *Service {
	return &Service{
		FAQ:      NewFAQService(rep.FAQ, rep.Version, rep.Image, blobStore),
		Feedback: NewFeedbackService(rep.Feedback, mailer),
		Auth:     NewAuthService(rep.User, cfg),
	}
}
