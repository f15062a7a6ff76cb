package services

import "context"

// PasswordService хэширует и проверяет пароли локальных учетных записей.
// Verify возвращает false без ошибки при несовпадении и при пустых аргументах;
// ошибка означает поврежденный хэш.
type PasswordService interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
}
