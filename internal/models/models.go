package models

import (
	"time"
)

// product types
const (
	ProductTypeWireless = "wireless"
	ProductTypeWired    = "wired"
	ProductTypeESeries  = "eseries"
)

// usage scenarios
const (
	ScenarioHome       = "home"
	ScenarioCommercial = "commercial"
	ScenarioIndustrial = "industrial"
)

// publication states
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// user roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FAQ - одна запись базы знаний, вопрос/ответ на нескольких языках.
// Questions и Answers хранятся в БД сериализованными, но в бизнес-логике
// живут как обычные map'ы (сериализация только в репозитории).
type FAQ struct {
	ID               int64             `json:"id"`
	Slug             string            `json:"slug"`
	ProductType      string            `json:"productType"`
	Scenario         string            `json:"scenario"`
	Status           string            `json:"status"`
	Version          int               `json:"version"`
	Questions        map[string]string `json:"questions"`
	Answers          map[string]string `json:"answers"`
	FeaturedImageURL *string           `json:"featuredImageUrl,omitempty"`
	SEOTitle         *string           `json:"seoTitle,omitempty"`
	SEODescription   *string           `json:"seoDescription,omitempty"`
	Tags             []string          `json:"tags"`
	PublishedAt      *time.Time        `json:"publishedAt,omitempty"`
	CreatedBy        string            `json:"createdBy"`
	UpdatedBy        string            `json:"updatedBy"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// FAQVersion - неизменяемый снимок контента на момент версии.
// Снимок покрывает только questions/answers/status, не SEO-поля.
type FAQVersion struct {
	ID            int64             `json:"id"`
	FAQID         int64             `json:"faqId"`
	Version       int               `json:"version"`
	ChangeSummary string            `json:"changeSummary"`
	Questions     map[string]string `json:"questions"`
	Answers       map[string]string `json:"answers"`
	Status        string            `json:"status"`
	ChangedBy     string            `json:"changedBy"`
	ChangedAt     time.Time         `json:"changedAt"`
}

type FAQImage struct {
	ID           int64     `json:"id"`
	FAQID        int64     `json:"faqId"`
	ImageURL     string    `json:"imageUrl"`
	ImageKey     string    `json:"imageKey"`
	AltText      *string   `json:"altText,omitempty"`
	Caption      *string   `json:"caption,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	UploadedBy   string    `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// feedback statuses
const (
	FeedbackStatusPending  = "pending"
	FeedbackStatusRead     = "read"
	FeedbackStatusResolved = "resolved"
)

type Feedback struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Language  string    `json:"language"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AutoReplyTemplate - шаблон автоответа, подбирается по ключевым словам
// в тексте отзыва.
type AutoReplyTemplate struct {
	ID         int64     `json:"id"`
	Category   string    `json:"category"`
	Keywords   []string  `json:"keywords"`
	TitleEn    string    `json:"titleEn"`
	TitleZh    string    `json:"titleZh"`
	ResponseEn string    `json:"responseEn"`
	ResponseZh string    `json:"responseZh"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// auto-reply log statuses
const (
	AutoReplyStatusSent          = "sent"
	AutoReplyStatusFailed        = "failed"
	AutoReplyStatusPendingReview = "pending_review"
)

type AutoReplyLog struct {
	ID               int64     `json:"id"`
	FeedbackID       int64     `json:"feedbackId"`
	TemplateID       int64     `json:"templateId"`
	UserEmail        string    `json:"userEmail"`
	Category         string    `json:"category"`
	ResponseLanguage string    `json:"responseLanguage"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}
