package entities

import "time"

// Statistics - результат прохождения продукта пользователем.
type Statistics struct {
	ID        string
	UserID    string
	ProductID string
	Level     int
	TotalTime string
	Score     int
	Other     string
	CreatedAt time.Time
}

// StatisticsList - список статистики, владельцем которого считается автор первой записи.
type StatisticsList []*Statistics

// Len возвращает длину списка.
func (l StatisticsList) Len() int {
	return len(l)
}

// OwnerAt возвращает владельца i-й записи.
func (l StatisticsList) OwnerAt(i int) string {
	return l[i].UserID
}
