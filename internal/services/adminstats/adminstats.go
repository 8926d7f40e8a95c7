// Package services реализует админскую сводную статистику: подсчёт
// ожидающих и одобренных сумм по видам платежей, выделенных участков,
// потенциальной выручки и дебиторской задолженности по всем покупателям.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/estate-aggregator/internal/estateapi"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/money"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// StatsAPI описывает используемую часть клиента estate API.
type StatsAPI interface {
	AllSubscriptions(ctx context.Context) ([]models.PlotSubscription, error)
	AllUserPayments(ctx context.Context) ([]models.Payment, error)
	AllSubsequentPayments(ctx context.Context) ([]models.Payment, error)
	AdminUsers(ctx context.Context) ([]estateapi.LegacyUser, error)
}

// AlertPublisher публикует алерт о росте числа ожидающих заявок.
type AlertPublisher interface {
	PublishPendingAlert(alert models.PendingAlert) error
}

// SnapshotRepository сохраняет результат цикла сбора статистики.
type SnapshotRepository interface {
	CreateSnapshot(ctx context.Context, stats models.AdminStats) (int, error)
}

// Input — сырьё для чистого расчёта статистики: четыре коллекции
// и флаги того, какие из них удалось получить.
type Input struct {
	Subscriptions      []models.PlotSubscription
	SubscriptionsOK    bool
	InitialPayments    []models.Payment
	InitialOK          bool
	SubsequentPayments []models.Payment
	SubsequentOK       bool
	Users              []estateapi.LegacyUser
	UsersOK            bool
}

// AdminStatsService собирает и публикует админскую статистику.
type AdminStatsService struct {
	api       StatsAPI
	publisher AlertPublisher
	snapshots SnapshotRepository
	log       *slog.Logger

	mu          sync.Mutex
	lastPending int
	hasBaseline bool
}

// NewAdminStatsService создает новый экземпляр AdminStatsService.
func NewAdminStatsService(api StatsAPI, publisher AlertPublisher, snapshots SnapshotRepository, log *slog.Logger) *AdminStatsService {
	return &AdminStatsService{
		api:       api,
		publisher: publisher,
		snapshots: snapshots,
		log:       log,
	}
}

// Collect запрашивает все четыре коллекции параллельно, считает
// статистику по тому, что удалось получить, сохраняет снапшот
// и при росте числа ожидающих заявок публикует алерт.
func (s *AdminStatsService) Collect(ctx context.Context) models.AdminStats {
	const op = "services.adminstats.Collect"
	log := s.log.With(slog.String("op", op))

	var in Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		subs, err := s.api.AllSubscriptions(gctx)
		if err != nil {
			log.Warn("subscriptions fetch failed", sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
			return nil
		}
		in.Subscriptions, in.SubscriptionsOK = subs, true
		return nil
	})
	g.Go(func() error {
		payments, err := s.api.AllUserPayments(gctx)
		if err != nil {
			log.Warn("initial payments fetch failed", sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
			return nil
		}
		in.InitialPayments, in.InitialOK = payments, true
		return nil
	})
	g.Go(func() error {
		payments, err := s.api.AllSubsequentPayments(gctx)
		if err != nil {
			log.Warn("subsequent payments fetch failed", sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
			return nil
		}
		in.SubsequentPayments, in.SubsequentOK = payments, true
		return nil
	})
	g.Go(func() error {
		users, err := s.api.AdminUsers(gctx)
		if err != nil {
			log.Warn("users fetch failed", sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
			return nil
		}
		in.Users, in.UsersOK = users, true
		return nil
	})
	_ = g.Wait()

	stats := Compute(in, time.Now().UTC())

	if s.snapshots != nil {
		if _, err := s.snapshots.CreateSnapshot(ctx, stats); err != nil {
			log.Warn("failed to store stats snapshot", sl.Err(err))
		}
	}

	s.notifyOnPendingGrowth(log, stats)
	return stats
}

// notifyOnPendingGrowth публикует один алерт на каждое увеличение
// числа ожидающих заявок: сравнение с предыдущим наблюдением,
// а не с каждым тиком.
func (s *AdminStatsService) notifyOnPendingGrowth(log *slog.Logger, stats models.AdminStats) {
	s.mu.Lock()
	previous := s.lastPending
	hadBaseline := s.hasBaseline
	s.lastPending = stats.PendingRequests
	s.hasBaseline = true
	s.mu.Unlock()

	if !hadBaseline || stats.PendingRequests <= previous {
		return
	}
	if s.publisher == nil {
		return
	}

	alert := models.PendingAlert{
		PendingRequests: stats.PendingRequests,
		Previous:        previous,
		CollectedAt:     stats.CollectedAt,
	}
	if err := s.publisher.PublishPendingAlert(alert); err != nil {
		log.Error("failed to publish pending alert", sl.Err(err))
		return
	}
	log.Info("published pending alert",
		slog.Int("pending", stats.PendingRequests),
		slog.Int("previous", previous))
}

// Compute — чистый расчёт статистики по полученным коллекциям.
// Суммы считаются только по одобренным платежам; платежи без статуса
// к одобренным не относятся.
func Compute(in Input, now time.Time) models.AdminStats {
	stats := models.AdminStats{
		ByKind:      make(map[models.PaymentKind]models.KindStats, 3),
		CollectedAt: now,
	}

	for _, sub := range in.Subscriptions {
		stats.TotalSubscriptions++
		switch sub.Status {
		case models.StatusApproved:
			stats.ApprovedSubscriptions++
		case models.StatusPending:
			stats.PendingRequests++
		}
		stats.TotalPlotsAllocated += money.CountTokens(sub.PlotTaken)
		stats.PotentialPlotRevenue += money.SumList(sub.PricePerPlot)
	}

	accumulate := func(kind models.PaymentKind, payments []models.Payment) {
		ks := stats.ByKind[kind]
		for _, p := range payments {
			switch p.Status {
			case models.StatusApproved:
				ks.ApprovedCount++
				ks.ApprovedAmount += p.Amount
			case models.StatusPending:
				ks.PendingCount++
				ks.PendingAmount += p.Amount
			}
		}
		stats.ByKind[kind] = ks
	}

	accumulate(models.KindInitial, in.InitialPayments)
	accumulate(models.KindSubsequent, in.SubsequentPayments)

	var selfReported float64
	for _, u := range in.Users {
		accumulate(models.KindAdmin, u.AdminPayments)
		selfReported += u.TotalPaid
		stats.TotalPlotsAllocated += money.CountTokens(u.PlotTaken)
		stats.PotentialPlotRevenue += money.SumList(u.PricePerPlot)
	}

	for _, ks := range stats.ByKind {
		stats.TotalActualBalance += ks.ApprovedAmount
		stats.TotalPendingAmount += ks.PendingAmount
		stats.PendingRequests += ks.PendingCount
	}
	stats.TotalActualBalance += selfReported
	if stats.TotalActualBalance < 0 {
		stats.TotalActualBalance = 0
	}
	if stats.TotalPendingAmount < 0 {
		stats.TotalPendingAmount = 0
	}
	stats.TotalReceivable = stats.TotalActualBalance + stats.TotalPendingAmount

	if !in.SubscriptionsOK {
		stats.Degraded = append(stats.Degraded, "subscriptions")
	}
	if !in.InitialOK {
		stats.Degraded = append(stats.Degraded, "user-payments")
	}
	if !in.SubsequentOK {
		stats.Degraded = append(stats.Degraded, "user-subsequent-payments")
	}
	if !in.UsersOK {
		stats.Degraded = append(stats.Degraded, "admin-users")
	}
	return stats
}
