package models

import "time"

// Operator — учётная запись сотрудника, работающего с сервисом.
// Хранится в локальной базе, пароль — в виде bcrypt-хэша.
type Operator struct {
	UID          string
	Username     string
	Email        string
	PasswordHash string
	Role         string // admin или staff
	CreatedAt    time.Time
}

// Receipt — квитанция, создаваемая при одобрении подписки.
type Receipt struct {
	ID            int
	Number        string // uuid, печатается на квитанции
	SubscriptionID int
	Email         string
	Amount        float64
	PlotIDs       string // перечень участков через запятую, как вернул API
	IssuedBy      string
	IssuedAt      time.Time
}

// StatsSnapshot — сохранённый результат одного цикла сбора админской
// статистики, используется для истории и отчётов.
type StatsSnapshot struct {
	ID          int
	Stats       AdminStats
	CollectedAt time.Time
}
