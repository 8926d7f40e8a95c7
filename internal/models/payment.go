package models

import "time"

// PaymentKind — дискриминатор варианта платёжной записи. Удалённый API
// хранит платежи в трёх коллекциях с почти одинаковой формой, поэтому
// вместо трёх структур используется один тип с явным тегом.
type PaymentKind string

const (
	// KindInitial — первый платёж, встроенный в запись подписки.
	KindInitial PaymentKind = "initial"
	// KindSubsequent — последующий платёж покупателя.
	KindSubsequent PaymentKind = "subsequent"
	// KindAdmin — платёж, внесённый администратором от имени покупателя.
	KindAdmin PaymentKind = "admin"
)

// Payment — нормализованная платёжная запись любого из трёх видов.
// Amount уже приведён к float64 (некорректное значение — 0),
// Date равен nil, если дата не распарсилась.
type Payment struct {
	ID          int
	Kind        PaymentKind
	Amount      float64
	Date        *time.Time
	Status      string // pending / approved / rejected, пустая строка — статус не передан
	Description string
	// OutstandingBal — запасной источник остатка задолженности,
	// используется только когда запись подписки недоступна.
	OutstandingBal float64
}

// ActivityEntry — проекция платежа для ленты активности дашборда.
type ActivityEntry struct {
	ID          int         `json:"id"`
	Kind        PaymentKind `json:"kind"`
	Amount      float64     `json:"amount"`
	Date        *time.Time  `json:"date"`
	Description string      `json:"description"`
}

// ToActivityEntry проецирует платёж в запись ленты активности.
func (p Payment) ToActivityEntry() ActivityEntry {
	return ActivityEntry{
		ID:          p.ID,
		Kind:        p.Kind,
		Amount:      p.Amount,
		Date:        p.Date,
		Description: p.Description,
	}
}
