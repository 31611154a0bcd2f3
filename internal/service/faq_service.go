package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
	"faqcenter/internal/repository"
	"faqcenter/internal/storage"
)

// Ограничения длины текстов на каждый язык.
const (
	minQuestionLen = 10
	maxQuestionLen = 500
	minAnswerLen   = 50
	maxAnswerLen   = 10000
)

const defaultHistoryLimit = 10

type UploadImageRequest struct {
	FAQID    int64
	FileName string
	Data     []byte
	AltText  *string
	Caption  *string
}

type UpdateImageRequest struct {
	ImageID      int64
	AltText      *string
	Caption      *string
	DisplayOrder *int
}

// FAQDetails - запись вместе с изображениями и (для админа) историей версий.
type FAQDetails struct {
	*models.FAQ
	Images   []*models.FAQImage   `json:"images"`
	Versions []*models.FAQVersion `json:"versions,omitempty"`
}

type FAQListItem struct {
	*models.FAQ
	Images []*models.FAQImage `json:"images"`
}

type FAQPage struct {
	Items      []*FAQListItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

type FAQService interface {
	Create(ctx context.Context, req repository.CreateFAQRequest, actor string) (*models.FAQ, error)
	Update(ctx context.Context, req repository.UpdateFAQRequest, actor string) (*models.FAQ, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Publish(ctx context.Context, id int64) (*models.FAQ, error)
	Unpublish(ctx context.Context, id int64) (*models.FAQ, error)
	RestoreVersion(ctx context.Context, faqID int64, targetVersion int, actor string) (*models.FAQ, error)
	GetByID(ctx context.Context, id int64, isAdmin bool) (*FAQDetails, error)
	GetBySlug(ctx context.Context, slug string, isAdmin bool) (*FAQDetails, error)
	List(ctx context.Context, filter repository.ListFAQFilter, isAdmin bool) (*FAQPage, error)
	VersionHistory(ctx context.Context, faqID int64, limit int) ([]*models.FAQVersion, error)
	UploadImage(ctx context.Context, req UploadImageRequest, actor string) (*models.FAQImage, error)
	DeleteImage(ctx context.Context, imageID int64) error
	UpdateImage(ctx context.Context, req UpdateImageRequest) (*models.FAQImage, error)
}

type faqService struct {
	faqRepo     repository.FAQRepository
	versionRepo repository.VersionRepository
	imageRepo   repository.ImageRepository
	blobStore   storage.Storage
}

func NewFAQService(
	faqRepo repository.FAQRepository,
	versionRepo repository.VersionRepository,
	imageRepo repository.ImageRepository,
	blobStore storage.Storage,
) FAQService {
	return &faqService{
		faqRepo:     faqRepo,
		versionRepo: versionRepo,
		imageRepo:   imageRepo,
		blobStore:   blobStore,
	}
}

// validateContent проверяет длины вопросов и ответов по каждому языку.
// Валидация идет до любых записей - частичных мутаций не бывает.
func validateContent(questions, answers map[string]string) error {
	var badLangs []string
	for lang, question := range questions {
		n := utf8.RuneCountInString(question)
		if n < minQuestionLen || n > maxQuestionLen {
			badLangs = append(badLangs, lang)
		}
	}
	if len(badLangs) > 0 {
		return apperr.NewValidation(
			fmt.Sprintf("длина вопроса должна быть от %d до %d символов", minQuestionLen, maxQuestionLen),
			badLangs...,
		)
	}

	for lang, answer := range answers {
		n := utf8.RuneCountInString(answer)
		if n < minAnswerLen || n > maxAnswerLen {
			badLangs = append(badLangs, lang)
		}
	}
	if len(badLangs) > 0 {
		return apperr.NewValidation(
			fmt.Sprintf("длина ответа должна быть от %d до %d символов", minAnswerLen, maxAnswerLen),
			badLangs...,
		)
	}

	return nil
}

func snapshotOf(faq *models.FAQ, summary, actor string) *models.FAQVersion {
	return &models.FAQVersion{
		FAQID:         faq.ID,
		Version:       faq.Version,
		ChangeSummary: summary,
		Questions:     faq.Questions,
		Answers:       faq.Answers,
		Status:        faq.Status,
		ChangedBy:     actor,
		ChangedAt:     time.Now(),
	}
}

func (s *faqService) Create(ctx context.Context, req repository.CreateFAQRequest, actor string) (*models.FAQ, error) {
	if err := validateContent(req.Questions, req.Answers); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}

	// slug строится из английского вопроса, при его отсутствии - "faq"
	baseSlug := GenerateSlug(req.Questions["en"])
	if baseSlug == "" {
		baseSlug = "faq"
	}
	slug, err := ensureUniqueSlug(ctx, s.faqRepo, baseSlug)
	if err != nil {
		return nil, err
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	faq := &models.FAQ{
		Slug:             slug,
		ProductType:      req.ProductType,
		Scenario:         req.Scenario,
		Status:           status,
		Version:          1,
		Questions:        req.Questions,
		Answers:          req.Answers,
		FeaturedImageURL: req.FeaturedImageURL,
		SEOTitle:         req.SEOTitle,
		SEODescription:   req.SEODescription,
		Tags:             tags,
		CreatedBy:        actor,
		UpdatedBy:        actor,
	}

	rec := snapshotOf(faq, "Initial creation", actor)

	if err := s.faqRepo.CreateWithVersion(ctx, faq, rec); err != nil {
		return nil, err
	}

	return faq, nil
}

// Update поднимает версию на единицу при любой мутации, даже если поменялся
// только seoTitle. Снимок версии включает итоговые questions/answers/status,
// SEO-поля и теги в снимок не входят.
func (s *faqService) Update(ctx context.Context, req repository.UpdateFAQRequest, actor string) (*models.FAQ, error) {
	faq, err := s.faqRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Questions != nil || req.Answers != nil {
		questions := req.Questions
		if questions == nil {
			questions = map[string]string{}
		}
		answers := req.Answers
		if answers == nil {
			answers = map[string]string{}
		}
		if err := validateContent(questions, answers); err != nil {
			return nil, err
		}
	}

	if req.ProductType != nil {
		faq.ProductType = *req.ProductType
	}
	if req.Scenario != nil {
		faq.Scenario = *req.Scenario
	}
	if req.Questions != nil {
		faq.Questions = req.Questions
	}
	if req.Answers != nil {
		faq.Answers = req.Answers
	}
	// для SEO-полей явный null в запросе очищает значение
	if req.FeaturedImageURL.Set {
		faq.FeaturedImageURL = req.FeaturedImageURL.Value
	}
	if req.SEOTitle.Set {
		faq.SEOTitle = req.SEOTitle.Value
	}
	if req.SEODescription.Set {
		faq.SEODescription = req.SEODescription.Value
	}
	if req.Tags != nil {
		faq.Tags = req.Tags
	}
	if req.Status != nil {
		faq.Status = *req.Status
	}

	faq.Version++
	faq.UpdatedBy = actor

	summary := req.ChangeSummary
	if summary == "" {
		summary = "Updated"
	}

	rec := snapshotOf(faq, summary, actor)

	if err := s.faqRepo.UpdateWithVersion(ctx, faq, rec); err != nil {
		return nil, err
	}

	return faq, nil
}

func (s *faqService) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := s.faqRepo.GetByID(ctx, id); err != nil {
		return false, err
	}

	return s.faqRepo.Delete(ctx, id)
}

// Publish и Unpublish меняют только статус: версия не растет,
// запись в журнал версий не добавляется.
func (s *faqService) Publish(ctx context.Context, id int64) (*models.FAQ, error) {
	if err := s.faqRepo.Publish(ctx, id, time.Now()); err != nil {
		return nil, err
	}

	return s.faqRepo.GetByID(ctx, id)
}

func (s *faqService) Unpublish(ctx context.Context, id int64) (*models.FAQ, error) {
	if err := s.faqRepo.Unpublish(ctx, id); err != nil {
		return nil, err
	}

	return s.faqRepo.GetByID(ctx, id)
}

// RestoreVersion копирует снимок целевой версии в текущую запись и двигает
// счетчик вперед: откат - это тоже новая версия, счетчик никогда не убывает.
func (s *faqService) RestoreVersion(ctx context.Context, faqID int64, targetVersion int, actor string) (*models.FAQ, error) {
	faq, err := s.faqRepo.GetByID(ctx, faqID)
	if err != nil {
		return nil, err
	}

	target, err := s.versionRepo.Get(ctx, faqID, targetVersion)
	if err != nil {
		return nil, err
	}

	faq.Questions = target.Questions
	faq.Answers = target.Answers
	faq.Status = target.Status
	faq.Version++
	faq.UpdatedBy = actor

	summary := fmt.Sprintf("Restored from version %d", targetVersion)
	rec := snapshotOf(faq, summary, actor)

	if err := s.faqRepo.UpdateWithVersion(ctx, faq, rec); err != nil {
		return nil, err
	}

	return faq, nil
}

func (s *faqService) GetByID(ctx context.Context, id int64, isAdmin bool) (*FAQDetails, error) {
	faq, err := s.faqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.assembleDetails(ctx, faq, isAdmin)
}

// GetBySlug - публичное чтение по slug (адрес страницы FAQ).
// Правила видимости те же, что и у GetByID.
func (s *faqService) GetBySlug(ctx context.Context, slug string, isAdmin bool) (*FAQDetails, error) {
	faq, err := s.faqRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	return s.assembleDetails(ctx, faq, isAdmin)
}

func (s *faqService) assembleDetails(ctx context.Context, faq *models.FAQ, isAdmin bool) (*FAQDetails, error) {
	// черновики видят только привилегированные
	if faq.Status == models.StatusDraft && !isAdmin {
		return nil, fmt.Errorf("FAQ %d: %w", faq.ID, apperr.ErrForbidden)
	}

	images, err := s.imagesDegraded(ctx, faq.ID)
	if err != nil {
		return nil, err
	}

	details := &FAQDetails{FAQ: faq, Images: images}

	if isAdmin {
		versions, err := s.VersionHistory(ctx, faq.ID, defaultHistoryLimit)
		if err != nil {
			return nil, err
		}
		details.Versions = versions
	}

	return details, nil
}

func (s *faqService) List(ctx context.Context, filter repository.ListFAQFilter, isAdmin bool) (*FAQPage, error) {
	// без привилегий фильтр статуса принудительно published
	if !isAdmin {
		filter.Status = models.StatusPublished
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	items, total, err := s.faqRepo.List(ctx, filter)
	if err != nil {
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			logrus.Warnf("БД недоступна, возвращаем пустой список FAQ: %v", err)
			return &FAQPage{Items: []*FAQListItem{}, Page: filter.Page, Limit: filter.Limit}, nil
		}
		return nil, err
	}

	listItems := make([]*FAQListItem, 0, len(items))
	for _, faq := range items {
		images, err := s.imagesDegraded(ctx, faq.ID)
		if err != nil {
			return nil, err
		}
		listItems = append(listItems, &FAQListItem{FAQ: faq, Images: images})
	}

	return &FAQPage{
		Items:      listItems,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

func (s *faqService) VersionHistory(ctx context.Context, faqID int64, limit int) ([]*models.FAQVersion, error) {
	if limit < 1 {
		limit = defaultHistoryLimit
	}

	versions, err := s.versionRepo.History(ctx, faqID, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			logrus.Warnf("БД недоступна, история версий пуста: %v", err)
			return []*models.FAQVersion{}, nil
		}
		return nil, err
	}

	return versions, nil
}

func (s *faqService) imagesDegraded(ctx context.Context, faqID int64) ([]*models.FAQImage, error) {
	images, err := s.imageRepo.GetByFAQID(ctx, faqID)
	if err != nil {
		if errors.Is(err, apperr.ErrStorageUnavailable) {
			logrus.Warnf("БД недоступна, изображения FAQ %d пропущены: %v", faqID, err)
			return []*models.FAQImage{}, nil
		}
		return nil, err
	}
	return images, nil
}

func (s *faqService) UploadImage(ctx context.Context, req UploadImageRequest, actor string) (*models.FAQImage, error) {
	if _, err := s.faqRepo.GetByID(ctx, req.FAQID); err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("faq/%d/%d-%s", req.FAQID, time.Now().UnixMilli(), req.FileName)
	contentType := storage.ContentTypeByName(req.FileName)

	imageURL, err := s.blobStore.Put(ctx, objectKey, req.Data, contentType)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки изображения в хранилище: %w", err)
	}

	maxOrder, err := s.imageRepo.MaxDisplayOrder(ctx, req.FAQID)
	if err != nil {
		return nil, err
	}

	image := &models.FAQImage{
		FAQID:        req.FAQID,
		ImageURL:     imageURL,
		ImageKey:     objectKey,
		AltText:      req.AltText,
		Caption:      req.Caption,
		DisplayOrder: maxOrder + 1,
		UploadedBy:   actor,
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		// компенсация: метаданные не записались, убираем blob
		if removeErr := s.blobStore.Remove(ctx, objectKey); removeErr != nil {
			logrus.Warnf("не удалось удалить объект %s после сбоя БД: %v", objectKey, removeErr)
		}
		return nil, fmt.Errorf("ошибка сохранения изображения в БД: %w", err)
	}

	return image, nil
}

func (s *faqService) DeleteImage(ctx context.Context, imageID int64) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	if err := s.blobStore.Remove(ctx, image.ImageKey); err != nil {
		logrus.Warnf("не удалось удалить объект %s из хранилища: %v", image.ImageKey, err)
	}

	removed, err := s.imageRepo.Delete(ctx, imageID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("изображение %d: %w", imageID, apperr.ErrNotFound)
	}

	return nil
}

func (s *faqService) UpdateImage(ctx context.Context, req UpdateImageRequest) (*models.FAQImage, error) {
	image, err := s.imageRepo.GetByID(ctx, req.ImageID)
	if err != nil {
		return nil, err
	}

	if req.AltText != nil {
		image.AltText = req.AltText
	}
	if req.Caption != nil {
		image.Caption = req.Caption
	}
	if req.DisplayOrder != nil {
		image.DisplayOrder = *req.DisplayOrder
	}

	if err := s.imageRepo.Update(ctx, image); err != nil {
		return nil, err
	}

	return image, nil
}
