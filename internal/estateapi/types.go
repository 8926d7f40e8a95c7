// Package estateapi реализует HTTP-клиент удалённого estate API —
// внешнего сервиса, в котором живут подписки на участки и платежи
// покупателей. Клиент нормализует рыхлые JSON-ответы API в доменные
// структуры и маркирует отказы категориями для логов.
package estateapi

import (
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/dates"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/money"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// subscriptionRecord — запись подписки в том виде, как её отдаёт API.
// Денежные поля приходят то числом, то строкой, поэтому объявлены как any.
type subscriptionRecord struct {
	ID              int    `json:"id"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Source          string `json:"source"`
	Status          string `json:"status"`
	PlotTaken       string `json:"plot_taken"`
	PricePerPlot    string `json:"price_per_plot"`
	TotalBalance    any    `json:"total_balance"`
	OutstandingBal  any    `json:"outstanding_balance"`
	InitialDeposit  any    `json:"initial_deposit"`
	Amount          any    `json:"amount"`
	TotalPaid       any    `json:"total_paid"`
	TransactionDate string `json:"transaction_date"`
	PaymentSchedule string `json:"payment_schedule"`
	DateTaken       string `json:"date_taken"`
	CreatedAt       string `json:"created_at"`
}

func (r subscriptionRecord) toModel() models.PlotSubscription {
	source := models.Source(r.Source)
	if source != models.SourceSubscriptions {
		source = models.SourceUsersTable
	}
	// Остаток задолженности API хранит то в total_balance,
	// то в outstanding_balance.
	outstanding := money.ParseAmount(r.TotalBalance)
	if outstanding == 0 {
		outstanding = money.ParseAmount(r.OutstandingBal)
	}
	taken := dates.Parse(r.DateTaken)
	if taken == nil {
		taken = dates.Parse(r.CreatedAt)
	}
	return models.PlotSubscription{
		ID:              r.ID,
		Email:           r.Email,
		FullName:        r.FullName,
		Source:          source,
		Status:          r.Status,
		PlotTaken:       r.PlotTaken,
		PricePerPlot:    r.PricePerPlot,
		OutstandingBal:  outstanding,
		InitialDeposit:  money.ParseAmount(r.InitialDeposit),
		InitialAmount:   money.ParseAmount(r.Amount),
		InitialDate:     dates.Parse(r.TransactionDate),
		PaymentSchedule: r.PaymentSchedule,
		DateTaken:       taken,
		TotalPaid:       money.ParseAmount(r.TotalPaid),
	}
}

// paymentRecord — платёжная запись любой из коллекций API.
type paymentRecord struct {
	ID              int    `json:"id"`
	Amount          any    `json:"amount"`
	AmountPaid      any    `json:"amount_paid"`
	Status          string `json:"status"`
	Description     string `json:"description"`
	CreatedAt       string `json:"created_at"`
	TransactionDate string `json:"transaction_date"`
	OutstandingBal  any    `json:"outstanding_balance"`
}

func (r paymentRecord) toModel(kind models.PaymentKind) models.Payment {
	// Сумма нормализуется по правилу amount_paid -> amount -> 0.
	amount := money.ParseAmount(r.AmountPaid)
	if amount == 0 {
		amount = money.ParseAmount(r.Amount)
	}
	date := dates.Parse(r.CreatedAt)
	if date == nil {
		date = dates.Parse(r.TransactionDate)
	}
	return models.Payment{
		ID:             r.ID,
		Kind:           kind,
		Amount:         amount,
		Date:           date,
		Status:         r.Status,
		Description:    r.Description,
		OutstandingBal: money.ParseAmount(r.OutstandingBal),
	}
}

// legacyUserRecord — запись унаследованной таблицы пользователей.
// Помимо самоотчётной суммы total_paid несёт платежи, внесённые
// администраторами от имени пользователя.
type legacyUserRecord struct {
	ID           int             `json:"id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name"`
	Status       string          `json:"status"`
	PlotTaken    string          `json:"plot_taken"`
	PricePerPlot string          `json:"price_per_plot"`
	TotalPaid    any             `json:"total_paid"`
	Payments     []paymentRecord `json:"payments"`
}

// LegacyUser — нормализованная запись унаследованной таблицы.
type LegacyUser struct {
	ID            int
	Email         string
	FullName      string
	Status        string
	PlotTaken     string
	PricePerPlot  string
	TotalPaid     float64
	AdminPayments []models.Payment
}

func (r legacyUserRecord) toModel() LegacyUser {
	payments := make([]models.Payment, 0, len(r.Payments))
	for _, p := range r.Payments {
		payments = append(payments, p.toModel(models.KindAdmin))
	}
	return LegacyUser{
		ID:            r.ID,
		Email:         r.Email,
		FullName:      r.FullName,
		Status:        r.Status,
		PlotTaken:     r.PlotTaken,
		PricePerPlot:  r.PricePerPlot,
		TotalPaid:     money.ParseAmount(r.TotalPaid),
		AdminPayments: payments,
	}
}

// subscriptionsEnvelope — конверт ответов с подписками.
type subscriptionsEnvelope struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Data    []subscriptionRecord `json:"data"`
}

// paymentsEnvelope — конверт ответов с платежами. Разные эндпоинты
// кладут коллекцию то в payments, то в requests, то в data.
type paymentsEnvelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Payments []paymentRecord `json:"payments"`
	Requests []paymentRecord `json:"requests"`
	Data     []paymentRecord `json:"data"`
}

func (e paymentsEnvelope) records() []paymentRecord {
	if len(e.Payments) > 0 {
		return e.Payments
	}
	if len(e.Requests) > 0 {
		return e.Requests
	}
	return e.Data
}

// usersEnvelope — конверт ответа со списком пользователей.
type usersEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    []legacyUserRecord `json:"data"`
}

// actionEnvelope — конверт ответов на одобрение и отклонение.
type actionEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		PlotIDs []string `json:"plotIds"`
	} `json:"data"`
}
