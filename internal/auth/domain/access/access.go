// Package access реализует проверку доступа к результату обработчика:
// администратор допускается всегда, остальные - только к своим ресурсам.
package access

import (
	"reflect"
	"slices"

	"sessionauth/internal/auth/domain/entities"
	"sessionauth/internal/auth/domain/services"
)

// Причины решения.
const (
	ReasonAdmin         = "admin"
	ReasonOwner         = "owner"
	ReasonNoOwner       = "no owner reference"
	ReasonOwnerMismatch = "owner mismatch"
	ReasonEmpty         = "empty result"
)

// Caller - проверенная личность вызывающего, взятая из access-токена.
type Caller struct {
	UserID string
	Roles  []entities.Role
}

// IsAdmin сообщает, есть ли у вызывающего роль администратора.
func (c Caller) IsAdmin() bool {
	return slices.Contains(c.Roles, entities.RoleAdmin)
}

// Owned реализуют ресурсы, у которых есть один владелец.
type Owned interface {
	OwnerID() string
}

// OwnedList реализуют списки ресурсов; владельцем списка считается владелец первого элемента.
type OwnedList interface {
	Len() int
	OwnerAt(i int) string
}

// Decision - результат проверки доступа.
type Decision struct {
	Allowed bool
	Reason  string
	OwnerID string
}

// Decide принимает решение по непустому результату.
func Decide(caller Caller, result any) Decision {
	if caller.IsAdmin() {
		return Decision{Allowed: true, Reason: ReasonAdmin}
	}

	ownerID, ok := ownerOf(result)
	if !ok {
		return Decision{Allowed: true, Reason: ReasonNoOwner, OwnerID: caller.UserID}
	}

	if ownerID != caller.UserID {
		return Decision{Allowed: false, Reason: ReasonOwnerMismatch, OwnerID: ownerID}
	}

	return Decision{Allowed: true, Reason: ReasonOwner, OwnerID: ownerID}
}

// Check проверяет доступ вызывающего к результату обработчика.
// Пустой результат дает NotFoundError с именем ресурса, чужой ресурс - ErrForbidden.
func Check(caller Caller, result any, resource string) error {
	if isEmpty(result) {
		return &services.NotFoundError{Resource: resource}
	}

	if !Decide(caller, result).Allowed {
		return services.ErrForbidden
	}

	return nil
}

func ownerOf(result any) (string, bool) {
	switch v := result.(type) {
	case Owned:
		return v.OwnerID(), true
	case OwnedList:
		return v.OwnerAt(0), true
	default:
		return "", false
	}
}

func isEmpty(result any) bool {
	if result == nil {
		return true
	}

	if list, ok := result.(OwnedList); ok && list.Len() == 0 {
		return true
	}

	v := reflect.ValueOf(result)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map:
		return v.IsNil()
	case reflect.Slice:
		return v.Len() == 0
	default:
		return false
	}
}
