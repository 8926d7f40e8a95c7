// Package services содержит бизнес-логику приложения.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// ErrSubscriptionNotFound возвращается, когда заявка с указанным
// идентификатором отсутствует в исходной системе.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// ApprovalAPI — операции исходной системы, меняющие статусы.
type ApprovalAPI interface {
	AllSubscriptions(ctx context.Context) ([]models.PlotSubscription, error)
	ApproveSubscription(ctx context.Context, id int) ([]string, error)
	RejectSubscription(ctx context.Context, id int) ([]string, error)
	UpdatePaymentStatus(ctx context.Context, kind models.PaymentKind, id int, status string) error
}

// ReceiptRepository сохраняет квитанции об одобрении.
type ReceiptRepository interface {
	CreateReceipt(ctx context.Context, receipt models.Receipt) (int, error)
}

// CacheInvalidator сбрасывает кэшированную сводку пользователя.
type CacheInvalidator interface {
	Invalidate(key string) error
}

// ApprovalService одобряет и отклоняет заявки на участки
// и меняет статусы платежей.
type ApprovalService struct {
	api      ApprovalAPI
	receipts ReceiptRepository
	cache    CacheInvalidator
	cacheKey func(email string) string
	log      *slog.Logger
}

// NewApprovalService создает новый экземпляр ApprovalService.
func NewApprovalService(api ApprovalAPI, receipts ReceiptRepository, cache CacheInvalidator,
	cacheKey func(email string) string, log *slog.Logger) *ApprovalService {
	return &ApprovalService{
		api:      api,
		receipts: receipts,
		cache:    cache,
		cacheKey: cacheKey,
		log:      log,
	}
}

// Approve одобряет заявку, выписывает квитанцию с уникальным номером
// и сбрасывает кэш сводки пользователя. Ошибка записи квитанции
// не откатывает одобрение: статус в исходной системе уже изменен.
func (s *ApprovalService) Approve(ctx context.Context, subscriptionID int, operator string) (models.Receipt, error) {
	const op = "services.approval.Approve"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("subscription_id", subscriptionID),
	)

	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	plotIDs, err := s.api.ApproveSubscription(ctx, subscriptionID)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("%s: %w", op, err)
	}

	receipt := models.Receipt{
		Number:         uuid.NewString(),
		SubscriptionID: subscriptionID,
		Email:          sub.Email,
		Amount:         sub.InitialAmount + sub.InitialDeposit,
		PlotIDs:        strings.Join(plotIDs, ","),
		IssuedBy:       operator,
		IssuedAt:       time.Now().UTC(),
	}
	if s.receipts != nil {
		id, err := s.receipts.CreateReceipt(ctx, receipt)
		if err != nil {
			log.Error("failed to store receipt", sl.Err(err))
		} else {
			receipt.ID = id
		}
	}

	s.invalidate(log, sub.Email)
	log.Info("subscription approved", slog.String("receipt", receipt.Number))
	return receipt, nil
}

// Reject отклоняет заявку и сбрасывает кэш сводки пользователя.
func (s *ApprovalService) Reject(ctx context.Context, subscriptionID int) error {
	const op = "services.approval.Reject"
	log := s.log.With(
		slog.String("op", op),
		slog.Int("subscription_id", subscriptionID),
	)

	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.api.RejectSubscription(ctx, subscriptionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate(log, sub.Email)
	log.Info("subscription rejected")
	return nil
}

// UpdatePaymentStatus меняет статус платежа в исходной системе.
func (s *ApprovalService) UpdatePaymentStatus(ctx context.Context, kind models.PaymentKind, id int, status string) error {
	const op = "services.approval.UpdatePaymentStatus"
	if err := s.api.UpdatePaymentStatus(ctx, kind, id, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment status updated",
		slog.String("op", op),
		slog.String("kind", string(kind)),
		slog.Int("payment_id", id),
		slog.String("status", status))
	return nil
}

func (s *ApprovalService) findSubscription(ctx context.Context, id int) (models.PlotSubscription, error) {
	subs, err := s.api.AllSubscriptions(ctx)
	if err != nil {
		return models.PlotSubscription{}, err
	}
	for _, sub := range subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return models.PlotSubscription{}, ErrSubscriptionNotFound
}

func (s *ApprovalService) invalidate(log *slog.Logger, email string) {
	if s.cache == nil || s.cacheKey == nil || email == "" {
		return
	}
	if err := s.cache.Invalidate(s.cacheKey(email)); err != nil {
		log.Warn("failed to invalidate summary cache", sl.Err(err))
	}
}
