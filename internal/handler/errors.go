package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"faqcenter/internal/apperr"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteServiceError сопоставляет доменные ошибки с HTTP-статусами
// через errors.Is/As, без разбора текста ошибки.
func WriteServiceError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError

	switch {
	case errors.As(err, &ve):
		WriteError(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		WriteError(w, "Не найдено", http.StatusNotFound)
	case errors.Is(err, apperr.ErrForbidden):
		WriteError(w, "Доступ запрещен", http.StatusForbidden)
	case errors.Is(err, apperr.ErrStorageUnavailable):
		WriteError(w, "Хранилище недоступно", http.StatusServiceUnavailable)
	default:
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
