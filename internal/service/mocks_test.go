package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"faqcenter/internal/models"
	"faqcenter/internal/repository"
)

type MockFAQRepository struct {
	mock.Mock
}

func (m *MockFAQRepository) CreateWithVersion(ctx context.Context, faq *models.FAQ, rec *models.FAQVersion) error {
	args := m.Called(ctx, faq, rec)
	return args.Error(0)
}

func (m *MockFAQRepository) UpdateWithVersion(ctx context.Context, faq *models.FAQ, rec *models.FAQVersion) error {
	args := m.Called(ctx, faq, rec)
	return args.Error(0)
}

func (m *MockFAQRepository) GetByID(ctx context.Context, id int64) (*models.FAQ, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FAQ), args.Error(1)
}

func (m *MockFAQRepository) GetBySlug(ctx context.Context, slug string) (*models.FAQ, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FAQ), args.Error(1)
}

func (m *MockFAQRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockFAQRepository) Publish(ctx context.Context, id int64, publishedAt time.Time) error {
	args := m.Called(ctx, id, publishedAt)
	return args.Error(0)
}

func (m *MockFAQRepository) Unpublish(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFAQRepository) List(ctx context.Context, filter repository.ListFAQFilter) ([]*models.FAQ, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.FAQ), args.Int(1), args.Error(2)
}

func (m *MockFAQRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockVersionRepository struct {
	mock.Mock
}

func (m *MockVersionRepository) Append(ctx context.Context, rec *models.FAQVersion) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockVersionRepository) History(ctx context.Context, faqID int64, limit int) ([]*models.FAQVersion, error) {
	args := m.Called(ctx, faqID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FAQVersion), args.Error(1)
}

func (m *MockVersionRepository) Get(ctx context.Context, faqID int64, version int) (*models.FAQVersion, error) {
	args := m.Called(ctx, faqID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FAQVersion), args.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, image *models.FAQImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) GetByID(ctx context.Context, imageID int64) (*models.FAQImage, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FAQImage), args.Error(1)
}

func (m *MockImageRepository) GetByFAQID(ctx context.Context, faqID int64) ([]*models.FAQImage, error) {
	args := m.Called(ctx, faqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FAQImage), args.Error(1)
}

func (m *MockImageRepository) MaxDisplayOrder(ctx context.Context, faqID int64) (int, error) {
	args := m.Called(ctx, faqID)
	return args.Int(0), args.Error(1)
}

func (m *MockImageRepository) Update(ctx context.Context, image *models.FAQImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, imageID int64) (bool, error) {
	args := m.Called(ctx, imageID)
	return args.Bool(0), args.Error(1)
}

type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	args := m.Called(ctx, feedback)
	return args.Error(0)
}

func (m *MockFeedbackRepository) ListFeedbacks(ctx context.Context) ([]*models.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) EnabledTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AutoReplyTemplate), args.Error(1)
}

func (m *MockFeedbackRepository) AllTemplates(ctx context.Context) ([]*models.AutoReplyTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AutoReplyTemplate), args.Error(1)
}

func (m *MockFeedbackRepository) LogAutoReply(ctx context.Context, log *models.AutoReplyLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockFeedbackRepository) LogsForFeedback(ctx context.Context, feedbackID int64) ([]*models.AutoReplyLog, error) {
	args := m.Called(ctx, feedbackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AutoReplyLog), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, objectName, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Remove(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	args := m.Called(ctx, to, subject, htmlBody, textBody)
	return args.Error(0)
}
