package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"faqcenter/internal/config"
	"faqcenter/internal/database"
	"faqcenter/internal/models"
	"faqcenter/internal/service"
)

type Handlers struct {
	FAQService      service.FAQService
	FeedbackService service.FeedbackService
	AuthService     service.AuthService
	DB              *database.DB
	Cfg             *config.Config
	Validate        *validator.Validate
}

func NewHandlers(services *service.Service, db *database.DB, config *config.Config) *Handlers {
	return &Handlers{
		FAQService:      services.FAQ,
		FeedbackService: services.Feedback,
		AuthService:     services.Auth,
		DB:              db,
		Cfg:             config,
		Validate:        validator.New(),
	}
}

// actor возвращает id пользователя из контекста запроса.
func actor(r *http.Request) string {
	userID, _ := r.Context().Value("userID").(string)
	return userID
}

func isAdmin(r *http.Request) bool {
	role, _ := r.Context().Value("role").(string)
	return role == models.RoleAdmin
}

// requireAdmin проверяет привилегии и сам пишет 403 при отказе.
func (h *Handlers) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if !isAdmin(r) {
		WriteError(w, "Доступ запрещен", http.StatusForbidden)
		return false
	}
	return true
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(); err != nil {
		WriteError(w, "БД недоступна", http.StatusServiceUnavailable)
		return
	}

	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
