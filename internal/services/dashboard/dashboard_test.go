package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, email string) models.Resolution {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Resolution)
}

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SubsequentPaymentsByUser(ctx context.Context, userID int) ([]models.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockAPI) UserPaymentsBySubscription(ctx context.Context, subscriptionID int) ([]models.Payment, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func subscriptionsResolution(sub models.PlotSubscription) models.Resolution {
	return models.Resolution{
		Source:         sub.Source,
		SubscriptionID: &sub.ID,
		Subscription:   &sub,
	}
}

// Сквозной сценарий: первый взнос 500000, один последующий платеж 500000,
// рассрочка 12 месяцев, остаток 4500000.
func TestBuildSummary_EndToEnd(t *testing.T) {
	sub := models.PlotSubscription{
		ID:              7,
		Email:           "buyer@example.com",
		Source:          models.SourceSubscriptions,
		Status:          models.StatusApproved,
		PlotTaken:       "A12,B07",
		OutstandingBal:  4500000,
		InitialDeposit:  500000,
		PaymentSchedule: "12 Months",
		DateTaken:       datePtr(2023, 12, 1),
	}

	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "buyer@example.com").
		Return(subscriptionsResolution(sub))

	mockAPI := new(MockAPI)
	mockAPI.On("SubsequentPaymentsByUser", mock.Anything, 42).
		Return([]models.Payment{
			{ID: 1, Kind: models.KindSubsequent, Amount: 500000, Date: datePtr(2024, 1, 10)},
		}, nil)

	service := NewDashboardService(mockResolver, mockAPI, nil, time.Minute, discardLogger())
	summary := service.BuildSummary(context.Background(), "buyer@example.com", 42)

	assert.Equal(t, 1000000.0, summary.TotalDeposited)
	assert.Equal(t, 4500000.0, summary.OutstandingBalance)
	assert.Equal(t, "12 Months", summary.PaymentTerms)
	assert.Equal(t, 375000.0, summary.NextPaymentAmount)
	require.NotNil(t, summary.NextPaymentDue)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), *summary.NextPaymentDue)
	assert.Equal(t, 2, summary.PlotCount)
	assert.False(t, summary.NoBalanceDue)
	mockAPI.AssertExpectations(t)
}

func TestBuildSummary_UsersTableMergesBothCollections(t *testing.T) {
	sub := models.PlotSubscription{
		ID:             11,
		Source:         models.SourceUsersTable,
		OutstandingBal: 1000000,
	}

	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "legacy@example.com").
		Return(subscriptionsResolution(sub))

	mockAPI := new(MockAPI)
	mockAPI.On("SubsequentPaymentsByUser", mock.Anything, 5).
		Return([]models.Payment{
			{ID: 1, Kind: models.KindSubsequent, Amount: 100000, Date: datePtr(2024, 3, 1)},
		}, nil)
	mockAPI.On("UserPaymentsBySubscription", mock.Anything, 11).
		Return([]models.Payment{
			{ID: 2, Kind: models.KindInitial, Amount: 200000, Date: datePtr(2024, 2, 1)},
		}, nil)

	service := NewDashboardService(mockResolver, mockAPI, nil, time.Minute, discardLogger())
	summary := service.BuildSummary(context.Background(), "legacy@example.com", 5)

	assert.Equal(t, 300000.0, summary.TotalDeposited)
	assert.Equal(t, 2, summary.TransactionCount)
	mockAPI.AssertExpectations(t)
}

// Отказ одной коллекции не роняет сборку: итог считается по успешной части.
func TestBuildSummary_PartialFailureTolerated(t *testing.T) {
	sub := models.PlotSubscription{
		ID:             11,
		Source:         models.SourceUsersTable,
		OutstandingBal: 1000000,
	}

	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "legacy@example.com").
		Return(subscriptionsResolution(sub))

	mockAPI := new(MockAPI)
	mockAPI.On("SubsequentPaymentsByUser", mock.Anything, 5).
		Return([]models.Payment{
			{ID: 1, Kind: models.KindSubsequent, Amount: 100000, Date: datePtr(2024, 3, 1)},
		}, nil)
	mockAPI.On("UserPaymentsBySubscription", mock.Anything, 11).
		Return(nil, errors.New("gateway timeout"))

	service := NewDashboardService(mockResolver, mockAPI, nil, time.Minute, discardLogger())
	summary := service.BuildSummary(context.Background(), "legacy@example.com", 5)

	assert.Equal(t, 100000.0, summary.TotalDeposited)
	assert.Equal(t, 1, summary.TransactionCount)
}

func TestBuildSummary_NoRecordSkipsPaymentFetches(t *testing.T) {
	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "unknown@example.com").
		Return(models.Resolution{Source: models.SourceUsersTable})

	mockAPI := new(MockAPI)

	service := NewDashboardService(mockResolver, mockAPI, nil, time.Minute, discardLogger())
	summary := service.BuildSummary(context.Background(), "unknown@example.com", 5)

	assert.Equal(t, 0.0, summary.TotalDeposited)
	assert.Equal(t, 0.0, summary.OutstandingBalance)
	assert.True(t, summary.NoBalanceDue)
	assert.Equal(t, "12 Months", summary.PaymentTerms)
	mockAPI.AssertNotCalled(t, "SubsequentPaymentsByUser")
	mockAPI.AssertNotCalled(t, "UserPaymentsBySubscription")
}

func TestBuildSummary_ActivityOrderingAndLimit(t *testing.T) {
	sub := models.PlotSubscription{
		ID:             7,
		Source:         models.SourceSubscriptions,
		OutstandingBal: 1000,
	}

	payments := []models.Payment{
		{ID: 1, Kind: models.KindSubsequent, Amount: 1, Date: datePtr(2024, 1, 1)},
		{ID: 2, Kind: models.KindSubsequent, Amount: 2, Date: nil},
		{ID: 3, Kind: models.KindSubsequent, Amount: 3, Date: datePtr(2024, 6, 1)},
		{ID: 4, Kind: models.KindSubsequent, Amount: 4, Date: datePtr(2024, 3, 1)},
		{ID: 5, Kind: models.KindSubsequent, Amount: 5, Date: nil},
		{ID: 6, Kind: models.KindSubsequent, Amount: 6, Date: datePtr(2024, 5, 1)},
	}

	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "buyer@example.com").
		Return(subscriptionsResolution(sub))

	mockAPI := new(MockAPI)
	mockAPI.On("SubsequentPaymentsByUser", mock.Anything, 42).Return(payments, nil)

	service := NewDashboardService(mockResolver, mockAPI, nil, time.Minute, discardLogger())
	summary := service.BuildSummary(context.Background(), "buyer@example.com", 42)

	assert.Equal(t, 6, summary.TransactionCount)
	require.Len(t, summary.RecentActivity, 5)

	// Валидные даты по убыванию, записи без даты в конце.
	assert.Equal(t, 3, summary.RecentActivity[0].ID)
	assert.Equal(t, 6, summary.RecentActivity[1].ID)
	assert.Equal(t, 4, summary.RecentActivity[2].ID)
	assert.Equal(t, 1, summary.RecentActivity[3].ID)
	assert.Nil(t, summary.RecentActivity[4].Date)
}

func TestBuildSummary_ProgressClamped(t *testing.T) {
	sub := models.PlotSubscription{
		ID:             7,
		Source:         models.SourceSubscriptions,
		OutstandingBal: 0,
		InitialDeposit: 500000,
	}

	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "buyer@example.com").
		Return(subscriptionsResolution(sub))

	mockAPI := new(MockAPI)
	mockAPI.On("SubsequentPaymentsByUser", mock.Anything, 42).
		Return([]models.Payment{}, nil)

	service := NewDashboardService(mockResolver, mockAPI, nil, time.Minute, discardLogger())
	summary := service.BuildSummary(context.Background(), "buyer@example.com", 42)

	assert.Equal(t, 100.0, summary.ProgressPercent)
	assert.True(t, summary.NoBalanceDue)
	assert.Equal(t, 0.0, summary.NextPaymentAmount)
}

type fakeCache struct {
	stored map[string][]byte
}

func (f *fakeCache) Get(string, any) (bool, error) { return false, nil }
func (f *fakeCache) Set(key string, _ any, _ time.Duration) error {
	f.stored[key] = nil
	return nil
}

func TestBuildSummary_StoresInCache(t *testing.T) {
	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "buyer@example.com").
		Return(models.Resolution{Source: models.SourceUsersTable})

	cache := &fakeCache{stored: map[string][]byte{}}

	service := NewDashboardService(mockResolver, new(MockAPI), cache, time.Minute, discardLogger())
	service.BuildSummary(context.Background(), "buyer@example.com", 42)

	assert.Contains(t, cache.stored, "dashboard:summary:buyer@example.com")
}
