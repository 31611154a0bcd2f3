package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
	"faqcenter/internal/repository"
)

const (
	minFeedbackLen = 10
	maxFeedbackLen = 5000
)

// статусы автоответа в результате Submit
const (
	AutoReplyResultSent    = "sent"
	AutoReplyResultPending = "pending"
	AutoReplyResultNoMatch = "no_match"
)

type SubmitFeedbackRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Message  string `json:"message" validate:"required"`
	Language string `json:"language" validate:"omitempty,oneof=en zh"`
}

type FeedbackResult struct {
	FeedbackID      int64  `json:"feedbackId"`
	AutoReplyStatus string `json:"autoReplyStatus"`
	Message         string `json:"message"`
}

type FeedbackService interface {
	Submit(ctx context.Context, req SubmitFeedbackRequest) (*FeedbackResult, error)
	ListFeedbacks(ctx context.Context) ([]*models.Feedback, error)
	ListTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error)
	LogsForFeedback(ctx context.Context, feedbackID int64) ([]*models.AutoReplyLog, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	mailer       Mailer
}

func NewFeedbackService(feedbackRepo repository.FeedbackRepository, mailer Mailer) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		mailer:       mailer,
	}
}

// matchTemplate возвращает первый включенный шаблон, у которого хотя бы одно
// ключевое слово встречается в тексте отзыва (без учета регистра).
func matchTemplate(message string, templates []*models.AutoReplyTemplate) *models.AutoReplyTemplate {
	messageLower := strings.ToLower(message)

	for _, template := range templates {
		for _, keyword := range template.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(messageLower, strings.ToLower(keyword)) {
				return template
			}
		}
	}

	return nil
}

func replySubjectAndBody(template *models.AutoReplyTemplate, language string) (string, string) {
	if language == "zh" {
		return template.TitleZh, template.ResponseZh
	}
	return template.TitleEn, template.ResponseEn
}

func replyHTML(subject, body, language string) string {
	greeting := "Hello,"
	signature := "Best regards,<br>Security Camera Support Team"
	footer := "This is an automated response. If you have additional questions, our team will respond within 12 hours."
	if language == "zh" {
		greeting = "您好，"
		signature = "此致<br>安防监控支持团队"
		footer = "这是一条自动回复。如果您有其他问题，我们的团队将在 12 小时内回复。"
	}

	return fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>%s</h2>
			<p>%s</p>
			<p style="white-space: pre-wrap;">%s</p>
			<p>%s</p>
			<p style="font-size: 12px; color: #6b7280;">%s</p>
		</div>`,
		subject, greeting, body, signature, footer,
	)
}

func (s *feedbackService) Submit(ctx context.Context, req SubmitFeedbackRequest) (*FeedbackResult, error) {
	language := req.Language
	if language == "" {
		language = "en"
	}

	n := utf8.RuneCountInString(req.Message)
	if n < minFeedbackLen || n > maxFeedbackLen {
		return nil, apperr.NewValidation(
			fmt.Sprintf("длина сообщения должна быть от %d до %d символов", minFeedbackLen, maxFeedbackLen),
		)
	}

	feedback := &models.Feedback{
		Email:    req.Email,
		Message:  req.Message,
		Language: language,
		Status:   models.FeedbackStatusPending,
	}

	if err := s.feedbackRepo.CreateFeedback(ctx, feedback); err != nil {
		return nil, err
	}

	autoReplyStatus := AutoReplyResultNoMatch

	templates, err := s.feedbackRepo.EnabledTemplates(ctx)
	if err != nil {
		// отзыв уже сохранен, автоответ не критичен
		logrus.Warnf("не удалось получить шаблоны автоответов: %v", err)
		templates = nil
	}

	if template := matchTemplate(req.Message, templates); template != nil {
		subject, body := replySubjectAndBody(template, language)
		html := replyHTML(subject, body, language)

		logStatus := models.AutoReplyStatusSent
		if err := s.mailer.Send(ctx, req.Email, subject, html, body); err != nil {
			logrus.Warnf("ошибка отправки автоответа для отзыва %d: %v", feedback.ID, err)
			logStatus = models.AutoReplyStatusPendingReview
			autoReplyStatus = AutoReplyResultPending
		} else {
			autoReplyStatus = AutoReplyResultSent
		}

		replyLog := &models.AutoReplyLog{
			FeedbackID:       feedback.ID,
			TemplateID:       template.ID,
			UserEmail:        req.Email,
			Category:         template.Category,
			ResponseLanguage: language,
			Status:           logStatus,
		}
		if err := s.feedbackRepo.LogAutoReply(ctx, replyLog); err != nil {
			logrus.Warnf("не удалось записать лог автоответа: %v", err)
		}
	}

	message := "Thank you for your feedback! We will respond within 12 hours."
	if language == "zh" {
		message = "感谢您的反馈！我们将在 12 小时内回复。"
	}

	return &FeedbackResult{
		FeedbackID:      feedback.ID,
		AutoReplyStatus: autoReplyStatus,
		Message:         message,
	}, nil
}

func (s *feedbackService) ListFeedbacks(ctx context.Context) ([]*models.Feedback, error) {
	feedbacks, err := s.feedbackRepo.ListFeedbacks(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			logrus.Warnf("БД недоступна, список отзывов пуст: %v", err)
			return []*models.Feedback{}, nil
		}
		return nil, err
	}
	return feedbacks, nil
}

func (s *feedbackService) ListTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error) {
	templates, err := s.feedbackRepo.AllTemplates(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			logrus.Warnf("БД недоступна, список шаблонов пуст: %v", err)
			return []*models.AutoReplyTemplate{}, nil
		}
		return nil, err
	}
	return templates, nil
}

func (s *feedbackService) LogsForFeedback(ctx context.Context, feedbackID int64) ([]*models.AutoReplyLog, error) {
	logs, err := s.feedbackRepo.LogsForFeedback(ctx, feedbackID)
	if err != nil {
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			logrus.Warnf("БД недоступна, логи автоответов пусты: %v", err)
			return []*models.AutoReplyLog{}, nil
		}
		return nil, err
	}
	return logs, nil
}
