// Package services содержит логику определения источника данных покупателя.
//
// Запись покупателя может лежать либо в таблице подписок, либо
// в унаследованной таблице пользователей; источники никогда не проверялись
// на взаимную исключительность, поэтому выбор детерминирован: первая
// найденная запись побеждает.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/estate-aggregator/internal/estateapi"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// SubscriptionFetcher описывает используемую часть клиента estate API.
type SubscriptionFetcher interface {
	SubscriptionsByEmail(ctx context.Context, email string) ([]models.PlotSubscription, error)
}

// ResolverService определяет источник данных и идентификатор подписки
// покупателя по его email.
type ResolverService struct {
	api SubscriptionFetcher
	log *slog.Logger
}

// NewResolverService создает новый экземпляр ResolverService.
func NewResolverService(api SubscriptionFetcher, log *slog.Logger) *ResolverService {
	return &ResolverService{
		api: api,
		log: log,
	}
}

// Resolve возвращает источник данных покупателя. Любой отказ запроса
// равнозначен отсутствию записи: результат деградирует к унаследованному
// источнику без идентификатора подписки, ошибка наружу не отдаётся.
// Для одного и того же состояния удалённого API результат детерминирован.
func (s *ResolverService) Resolve(ctx context.Context, email string) models.Resolution {
	const op = "services.resolver.Resolve"

	log := s.log.With(slog.String("op", op), slog.String("email", email))

	subs, err := s.api.SubscriptionsByEmail(ctx, email)
	if err != nil {
		log.Warn("subscription lookup failed, falling back to userstable",
			sl.Err(err), sl.Category(estateapi.CategoryOf(err)))
		return models.Resolution{Source: models.SourceUsersTable}
	}
	if len(subs) == 0 {
		log.Info("no subscription record found, falling back to userstable")
		return models.Resolution{Source: models.SourceUsersTable}
	}

	// Первая запись побеждает.
	sub := subs[0]
	res := models.Resolution{
		Source:         sub.Source,
		SubscriptionID: &sub.ID,
		Subscription:   &sub,
	}
	log.Info("resolved data source",
		slog.String("source", string(res.Source)),
		slog.Int("subscription_id", sub.ID))
	return res
}
