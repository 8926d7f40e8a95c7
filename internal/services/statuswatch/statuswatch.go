// Package services содержит бизнес-логику приложения.
package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/estate-aggregator/internal/estateapi"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// SubscriptionLister описывает выборку всех заявок из исходной системы.
type SubscriptionLister interface {
	AllSubscriptions(ctx context.Context) ([]models.PlotSubscription, error)
}

// CacheInvalidator сбрасывает кэшированную сводку покупателя.
type CacheInvalidator interface {
	Invalidate(key string) error
}

// StatusWatchService следит за сменой статусов заявок и сбрасывает
// кэш сводок затронутых покупателей, чтобы дашборд не показывал
// устаревший статус дольше одного цикла опроса.
type StatusWatchService struct {
	api      SubscriptionLister
	cache    CacheInvalidator
	cacheKey func(email string) string
	log      *slog.Logger

	mu   sync.Mutex
	last map[int]string
}

// NewStatusWatchService создает новый экземпляр StatusWatchService.
func NewStatusWatchService(api SubscriptionLister, cache CacheInvalidator,
	cacheKey func(email string) string, log *slog.Logger) *StatusWatchService {
	return &StatusWatchService{
		api:      api,
		cache:    cache,
		cacheKey: cacheKey,
		log:      log,
		last:     make(map[int]string),
	}
}

// CheckOnce выполняет одну итерацию опроса. Ошибка выборки переносится:
// состояние не меняется, следующий тик попробует снова.
func (s *StatusWatchService) CheckOnce(ctx context.Context) {
	const op = "services.statuswatch.CheckOnce"
	log := s.log.With(slog.String("op", op))

	subs, err := s.api.AllSubscriptions(ctx)
	if err != nil {
		log.Warn("subscriptions fetch failed",
			sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := make(map[int]string, len(subs))
	for _, sub := range subs {
		current[sub.ID] = sub.Status
		prev, seen := s.last[sub.ID]
		if !seen || prev == sub.Status {
			continue
		}
		log.Info("subscription status changed",
			slog.Int("id", sub.ID),
			slog.String("from", prev),
			slog.String("to", sub.Status))
		if s.cache == nil || sub.Email == "" {
			continue
		}
		if err := s.cache.Invalidate(s.cacheKey(sub.Email)); err != nil {
			log.Warn("failed to invalidate summary cache", sl.Err(err))
		}
	}
	s.last = current
}
