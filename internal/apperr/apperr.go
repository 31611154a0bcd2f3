package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Сентинельные ошибки доменного слоя. Хендлеры сопоставляют их
// с HTTP-статусами через errors.Is, без разбора текста.
var (
	ErrNotFound           = errors.New("не найдено")
	ErrForbidden          = errors.New("доступ запрещен")
	ErrStorageUnavailable = errors.New("хранилище недоступно")
	ErrInternal           = errors.New("внутренняя ошибка сервера")
)

// ValidationError - ошибка валидации входных данных. Langs содержит коды
// языков, для которых нарушены ограничения длины вопроса/ответа.
type ValidationError struct {
	Message string
	Langs   []string
}

func (e *ValidationError) Error() string {
	if len(e.Langs) > 0 {
		return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Langs, ", "))
	}
	return e.Message
}

func NewValidation(message string, langs ...string) *ValidationError {
	return &ValidationError{Message: message, Langs: langs}
}

// IsValidation проверяет, является ли ошибка ошибкой валидации.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
