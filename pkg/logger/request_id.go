package logger

import (
	"context"

	"github.com/google/uuid"
)

// MaxRequestIDLength - наибольшая длина принимаемого извне идентификатора запроса.
const MaxRequestIDLength = 128

type requestIDKey struct{}

// NewRequestIDContext кладет в контекст идентификатор запроса.
// Пустое или непригодное для лога значение заменяется новым.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if !ValidRequestID(requestID) {
		requestID = GenerateRequestID()
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID извлекает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// GenerateRequestID генерирует новый идентификатор запроса.
func GenerateRequestID() string {
	return uuid.NewString()
}

// ValidRequestID сообщает, можно ли доверить значение заголовка логам:
// непустое, не длиннее MaxRequestIDLength, только печатные ASCII-символы.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
