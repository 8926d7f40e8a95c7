package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

type MockLister struct {
	mock.Mock
}

func (m *MockLister) AllSubscriptions(ctx context.Context) ([]models.PlotSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlotSubscription), args.Error(1)
}

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCacheKey(email string) string {
	return "dashboard:summary:" + email
}

func TestCheckOnce_InvalidatesOnStatusChange(t *testing.T) {
	lister := new(MockLister)
	lister.On("AllSubscriptions", mock.Anything).Return([]models.PlotSubscription{
		{ID: 1, Email: "a@example.com", Status: models.StatusPending},
		{ID: 2, Email: "b@example.com", Status: models.StatusPending},
	}, nil).Once()
	lister.On("AllSubscriptions", mock.Anything).Return([]models.PlotSubscription{
		{ID: 1, Email: "a@example.com", Status: models.StatusApproved},
		{ID: 2, Email: "b@example.com", Status: models.StatusPending},
	}, nil).Once()

	cache := new(MockInvalidator)
	cache.On("Invalidate", "dashboard:summary:a@example.com").Return(nil).Once()

	svc := NewStatusWatchService(lister, cache, testCacheKey, discardLogger())

	// Первый проход только запоминает статусы, второй видит смену
	// статуса первой заявки и сбрасывает ровно её кэш.
	svc.CheckOnce(context.Background())
	svc.CheckOnce(context.Background())

	cache.AssertExpectations(t)
	cache.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestCheckOnce_FetchFailureKeepsState(t *testing.T) {
	lister := new(MockLister)
	lister.On("AllSubscriptions", mock.Anything).Return([]models.PlotSubscription{
		{ID: 1, Email: "a@example.com", Status: models.StatusPending},
	}, nil).Once()
	lister.On("AllSubscriptions", mock.Anything).Return(nil, errors.New("unavailable")).Once()
	lister.On("AllSubscriptions", mock.Anything).Return([]models.PlotSubscription{
		{ID: 1, Email: "a@example.com", Status: models.StatusApproved},
	}, nil).Once()

	cache := new(MockInvalidator)
	cache.On("Invalidate", "dashboard:summary:a@example.com").Return(nil).Once()

	svc := NewStatusWatchService(lister, cache, testCacheKey, discardLogger())

	svc.CheckOnce(context.Background())
	svc.CheckOnce(context.Background())
	svc.CheckOnce(context.Background())

	// Сбой второго прохода не стирает запомненные статусы,
	// поэтому смена всё равно обнаруживается на третьем.
	cache.AssertExpectations(t)
}
