// Package services реализует сборку пользовательского дашборда:
// определение источника, слияние платёжных коллекций, расчёт итогов,
// даты следующего платежа и ленты активности.
package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/estate-aggregator/internal/estateapi"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/money"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/schedule"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// recentActivityLimit — сколько записей активности держит сводка по умолчанию.
const recentActivityLimit = 5

// Resolver определяет источник данных покупателя.
type Resolver interface {
	Resolve(ctx context.Context, email string) models.Resolution
}

// PaymentsFetcher описывает используемую часть клиента estate API.
type PaymentsFetcher interface {
	SubsequentPaymentsByUser(ctx context.Context, userID int) ([]models.Payment, error)
	UserPaymentsBySubscription(ctx context.Context, subscriptionID int) ([]models.Payment, error)
}

// Cache описывает методы для кэширования сводок.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

func cacheKey(email string) string { return "dashboard:summary:" + email }

// DashboardService собирает сводку дашборда покупателя.
type DashboardService struct {
	resolver   Resolver
	api        PaymentsFetcher
	cache      Cache
	summaryTTL time.Duration
	log        *slog.Logger
}

// NewDashboardService создает новый экземпляр DashboardService.
func NewDashboardService(resolver Resolver, api PaymentsFetcher, cache Cache, summaryTTL time.Duration, log *slog.Logger) *DashboardService {
	return &DashboardService{
		resolver:   resolver,
		api:        api,
		cache:      cache,
		summaryTTL: summaryTTL,
		log:        log,
	}
}

// BuildSummary собирает сводку с нуля: сначала разрешается источник
// данных, затем платёжные коллекции запрашиваются параллельно.
// Отказ любой коллекции переносится: сводка считается по тому,
// что удалось получить, и метод не возвращает ошибку из-за отказов API.
func (s *DashboardService) BuildSummary(ctx context.Context, email string, userID int) models.DashboardSummary {
	const op = "services.dashboard.BuildSummary"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	if s.cache != nil {
		var cached models.DashboardSummary
		found, err := s.cache.Get(cacheKey(email), &cached)
		if err != nil {
			log.Warn("cache lookup failed", sl.Err(err))
		}
		if found {
			return cached
		}
	}

	// Разрешение источника всегда завершается до выборки платежей:
	// выборке нужен источник и идентификатор подписки.
	res := s.resolver.Resolve(ctx, email)

	var subsequent, initial []models.Payment
	if res.SubscriptionID != nil {
		subsequent, initial = s.fetchPayments(ctx, log, res, userID)
	} else {
		log.Info("no subscription record, skipping payment fetches")
	}

	summary := s.aggregate(email, res, subsequent, initial)

	if s.cache != nil {
		if err := s.cache.Set(cacheKey(email), summary, s.summaryTTL); err != nil {
			log.Warn("failed to cache summary", sl.Err(err))
		}
	}
	return summary
}

// fetchPayments запрашивает платёжные коллекции параллельно.
// Для источника subscriptions нужна только коллекция последующих
// платежей; для унаследованного источника дополнительно коллекция
// начальных платежей по идентификатору подписки.
func (s *DashboardService) fetchPayments(ctx context.Context, log *slog.Logger, res models.Resolution, userID int) (subsequent, initial []models.Payment) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		payments, err := s.api.SubsequentPaymentsByUser(gctx, userID)
		if err != nil {
			log.Warn("subsequent payments fetch failed",
				sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
			return nil
		}
		subsequent = payments
		return nil
	})

	if res.Source == models.SourceUsersTable {
		subscriptionID := *res.SubscriptionID
		g.Go(func() error {
			payments, err := s.api.UserPaymentsBySubscription(gctx, subscriptionID)
			if err != nil {
				log.Warn("initial payments fetch failed",
					sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
				return nil
			}
			initial = payments
			return nil
		})
	}

	// Ошибки проглатываются внутри горутин, Wait здесь не может упасть.
	_ = g.Wait()
	return subsequent, initial
}

// aggregate сводит платежи и запись подписки в итоговый агрегат.
func (s *DashboardService) aggregate(email string, res models.Resolution, subsequent, initial []models.Payment) models.DashboardSummary {
	sub := res.Subscription

	var totalDeposited float64
	var activity []models.ActivityEntry
	var lastPayment *time.Time

	if sub != nil {
		// Итог начинается со встроенного первого платежа и
		// первоначального взноса подписки.
		totalDeposited = sub.InitialAmount + sub.InitialDeposit
		if sub.InitialAmount > 0 {
			activity = append(activity, models.ActivityEntry{
				ID:          sub.ID,
				Kind:        models.KindInitial,
				Amount:      sub.InitialAmount,
				Date:        sub.InitialDate,
				Description: "Initial payment",
			})
			lastPayment = laterDate(lastPayment, sub.InitialDate)
		}
	}

	// Последующие платежи суммируются без фильтра по статусу — так
	// считает исходная система. См. открытый вопрос в DESIGN.md.
	merged := make([]models.Payment, 0, len(subsequent)+len(initial))
	merged = append(merged, subsequent...)
	merged = append(merged, initial...)
	for _, p := range merged {
		totalDeposited += p.Amount
		activity = append(activity, p.ToActivityEntry())
		lastPayment = laterDate(lastPayment, p.Date)
	}
	if totalDeposited < 0 {
		totalDeposited = 0
	}

	outstanding := outstandingBalance(sub, merged)

	sortActivity(activity)
	transactionCount := len(activity)
	if len(activity) > recentActivityLimit {
		activity = activity[:recentActivityLimit]
	}

	var term schedule.Term
	var status, plotTaken string
	var dateTaken *time.Time
	if sub != nil {
		term = schedule.Normalize(sub.PaymentSchedule)
		status = sub.Status
		plotTaken = sub.PlotTaken
		dateTaken = sub.DateTaken
	} else {
		term = schedule.DefaultTerm
	}

	return models.DashboardSummary{
		Email:              email,
		Source:             res.Source,
		SubscriptionStatus: status,
		PlotCount:          money.CountTokens(plotTaken),
		TransactionCount:   transactionCount,
		TotalDeposited:     totalDeposited,
		OutstandingBalance: outstanding,
		PaymentTerms:       string(term),
		NextPaymentAmount:  schedule.NextPaymentAmount(term, outstanding),
		NextPaymentDue:     schedule.NextDueDate(term, lastPayment, dateTaken),
		NoBalanceDue:       outstanding <= 0,
		ProgressPercent:    schedule.Progress(totalDeposited, outstanding),
		RecentActivity:     activity,
	}
}

// outstandingBalance берёт остаток из записи подписки, а при её
// отсутствии — из самого свежего платежа с ненулевым полем
// outstanding_balance. Отрицательный остаток не возвращается.
func outstandingBalance(sub *models.PlotSubscription, payments []models.Payment) float64 {
	if sub != nil {
		if sub.OutstandingBal < 0 {
			return 0
		}
		return sub.OutstandingBal
	}

	var fallback float64
	var fallbackDate *time.Time
	for _, p := range payments {
		if p.OutstandingBal == 0 {
			continue
		}
		if fallbackDate == nil || (p.Date != nil && p.Date.After(*fallbackDate)) {
			fallback = p.OutstandingBal
			fallbackDate = p.Date
		}
	}
	if fallback < 0 {
		return 0
	}
	return fallback
}

// sortActivity сортирует ленту по дате по убыванию; записи без даты
// идут после всех записей с датой.
func sortActivity(activity []models.ActivityEntry) {
	sort.SliceStable(activity, func(i, j int) bool {
		a, b := activity[i].Date, activity[j].Date
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

func laterDate(current, candidate *time.Time) *time.Time {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.After(*current) {
		return candidate
	}
	return current
}

