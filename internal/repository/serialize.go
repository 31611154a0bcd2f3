package repository

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"faqcenter/internal/apperr"
)

// Граница сериализации: многоязычные map'ы и теги превращаются в JSON
// только здесь, бизнес-логика работает с обычными типами.

func marshalLangMap(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации языковой карты: %w", err)
	}
	return string(data), nil
}

func unmarshalLangMap(raw string) (map[string]string, error) {
	m := map[string]string{}
	if raw == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("ошибка десериализации языковой карты: %w", err)
	}
	return m, nil
}

func marshalTags(tags []string) (sql.NullString, error) {
	if tags == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("ошибка сериализации тегов: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalTags(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, fmt.Errorf("ошибка десериализации тегов: %w", err)
	}
	return tags, nil
}

// wrapDBErr переводит ошибки соединения в ErrStorageUnavailable,
// остальные ошибки возвращает как есть.
func wrapDBErr(err error) error {
	if err == nil {
		return nil
	}
	if isConnErr(err) {
		return fmt.Errorf("%w: %v", apperr.ErrStorageUnavailable, err)
	}
	return err
}

// isConnErr распознает недоступность базы: мертвое соединение пула,
// сетевой сбой дозвона и ошибки Postgres класса 08 (connection exception).
func isConnErr(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	// *net.OpError, а не интерфейс net.Error: под него попадает и
	// context.DeadlineExceeded, отмену вызова глушить нельзя
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "08" {
		return true
	}

	return false
}
