// Package models содержит доменные структуры: подписки на земельные участки,
// платежи, агрегаты дашбордов и вспомогательные типы для работы
// с данными удалённого estate API.
package models

import "time"

// Source указывает, в каком источнике удалённого API лежит
// каноническая запись покупателя.
type Source string

const (
	// SourceSubscriptions — запись в таблице подписок, платежи
	// запрашиваются по идентификатору подписки.
	SourceSubscriptions Source = "subscriptions"
	// SourceUsersTable — унаследованная таблица пользователей,
	// платежи запрашиваются по идентификатору самого пользователя.
	SourceUsersTable Source = "userstable"
)

// Статусы подписки и платежа в удалённом API.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// PlotSubscription представляет подписку покупателя на земельные участки,
// нормализованную из ответа удалённого API. Денежные поля уже приведены
// к float64, даты могут отсутствовать (нераспарсенная дата — nil).
type PlotSubscription struct {
	ID              int        // Идентификатор записи в удалённом API
	Email           string     // Email покупателя
	FullName        string     // Полное имя покупателя
	Source          Source     // Источник канонической записи
	Status          string     // pending / approved / rejected
	PlotTaken       string     // Список участков через запятую, как хранит API
	PricePerPlot    string     // Список цен через запятую, как хранит API
	OutstandingBal  float64    // Остаток задолженности (total_balance)
	InitialDeposit  float64    // Первоначальный взнос
	InitialAmount   float64    // Сумма первого платежа, встроенного в запись
	InitialDate     *time.Time // Дата первого платежа (transaction_date)
	PaymentSchedule string     // Свободный текст графика платежей
	DateTaken       *time.Time // Дата оформления подписки
	TotalPaid       float64    // Сумма, заявленная самим покупателем
}

// Resolution — результат определения источника данных покупателя.
// SubscriptionID равен nil, если запись подписки не найдена:
// в этом случае выборка платежей по подписке пропускается целиком.
type Resolution struct {
	Source         Source
	SubscriptionID *int
	Subscription   *PlotSubscription
}
