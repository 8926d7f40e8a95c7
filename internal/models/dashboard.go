package models

import "time"

// DashboardSummary — агрегат пользовательского дашборда. Пересчитывается
// с нуля при каждом запросе, нигде не хранится кроме кеша с коротким TTL.
type DashboardSummary struct {
	Email              string          `json:"email"`
	Source             Source          `json:"source"`
	SubscriptionStatus string          `json:"subscription_status,omitempty"`
	PlotCount          int             `json:"plot_count"`
	TransactionCount   int             `json:"transaction_count"`
	TotalDeposited     float64         `json:"total_deposited"`
	OutstandingBalance float64         `json:"outstanding_balance"`
	PaymentTerms       string          `json:"payment_terms"`
	NextPaymentAmount  float64         `json:"next_payment_amount"`
	NextPaymentDue     *time.Time      `json:"next_payment_due"`
	NoBalanceDue       bool            `json:"no_balance_due"`
	ProgressPercent    float64         `json:"progress_percent"`
	RecentActivity     []ActivityEntry `json:"recent_activity"`
}

// KindStats — количество и суммы одобренных и ожидающих платежей
// одного вида.
type KindStats struct {
	ApprovedCount  int     `json:"approved_count"`
	ApprovedAmount float64 `json:"approved_amount"`
	PendingCount   int     `json:"pending_count"`
	PendingAmount  float64 `json:"pending_amount"`
}

// AdminStats — сводная статистика по всем покупателям для админского
// обзора. Вычисляется заново на каждом тике опроса; при частичном отказе
// источников считается по тому, что удалось получить, а отказавшие
// источники перечисляются в Degraded.
type AdminStats struct {
	TotalSubscriptions    int                       `json:"total_subscriptions"`
	ApprovedSubscriptions int                       `json:"approved_subscriptions"`
	PendingRequests       int                       `json:"pending_requests"`
	ByKind                map[PaymentKind]KindStats `json:"by_kind"`
	TotalPlotsAllocated   int                       `json:"total_plots_allocated"`
	PotentialPlotRevenue  float64                   `json:"potential_plot_revenue"`
	TotalActualBalance    float64                   `json:"total_actual_balance"`
	TotalPendingAmount    float64                   `json:"total_pending_amount"`
	TotalReceivable       float64                   `json:"total_receivable"`
	Degraded              []string                  `json:"degraded,omitempty"`
	CollectedAt           time.Time                 `json:"collected_at"`
}

// PendingAlert — сообщение, публикуемое в очередь при росте числа
// ожидающих заявок.
type PendingAlert struct {
	PendingRequests int       `json:"pending_requests"`
	Previous        int       `json:"previous"`
	CollectedAt     time.Time `json:"collected_at"`
}
