// Package dates разбирает даты из ответов удалённого API.
// API отдаёт даты в нескольких форматах вперемешку; нераспарсенная дата
// считается отсутствующей, а не ошибкой.
package dates

import (
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// Parse пытается разобрать дату по известным форматам API.
// Возвращает nil, если ни один формат не подошёл.
func Parse(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
