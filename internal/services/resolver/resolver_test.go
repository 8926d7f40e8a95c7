package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SubscriptionsByEmail(ctx context.Context, email string) ([]models.PlotSubscription, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlotSubscription), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(*MockAPI)
		wantSource models.Source
		wantSubID  *int
	}{
		{
			name: "запись в источнике subscriptions",
			setupMock: func(m *MockAPI) {
				m.On("SubscriptionsByEmail", mock.Anything, "buyer@example.com").
					Return([]models.PlotSubscription{
						{ID: 7, Source: models.SourceSubscriptions},
					}, nil)
			},
			wantSource: models.SourceSubscriptions,
			wantSubID:  ptr(7),
		},
		{
			name: "запись в унаследованном источнике",
			setupMock: func(m *MockAPI) {
				m.On("SubscriptionsByEmail", mock.Anything, "buyer@example.com").
					Return([]models.PlotSubscription{
						{ID: 11, Source: models.SourceUsersTable},
					}, nil)
			},
			wantSource: models.SourceUsersTable,
			wantSubID:  ptr(11),
		},
		{
			name: "первая запись побеждает",
			setupMock: func(m *MockAPI) {
				m.On("SubscriptionsByEmail", mock.Anything, "buyer@example.com").
					Return([]models.PlotSubscription{
						{ID: 1, Source: models.SourceSubscriptions},
						{ID: 2, Source: models.SourceUsersTable},
					}, nil)
			},
			wantSource: models.SourceSubscriptions,
			wantSubID:  ptr(1),
		},
		{
			name: "пустой ответ дает userstable без идентификатора",
			setupMock: func(m *MockAPI) {
				m.On("SubscriptionsByEmail", mock.Anything, "buyer@example.com").
					Return([]models.PlotSubscription{}, nil)
			},
			wantSource: models.SourceUsersTable,
			wantSubID:  nil,
		},
		{
			name: "отказ запроса дает userstable без идентификатора",
			setupMock: func(m *MockAPI) {
				m.On("SubscriptionsByEmail", mock.Anything, "buyer@example.com").
					Return(nil, errors.New("connection refused"))
			},
			wantSource: models.SourceUsersTable,
			wantSubID:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := new(MockAPI)
			tt.setupMock(mockAPI)

			service := NewResolverService(mockAPI, discardLogger())
			res := service.Resolve(context.Background(), "buyer@example.com")

			assert.Equal(t, tt.wantSource, res.Source)
			if tt.wantSubID == nil {
				assert.Nil(t, res.SubscriptionID)
			} else {
				require.NotNil(t, res.SubscriptionID)
				assert.Equal(t, *tt.wantSubID, *res.SubscriptionID)
			}
			mockAPI.AssertExpectations(t)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	mockAPI := new(MockAPI)
	mockAPI.On("SubscriptionsByEmail", mock.Anything, "buyer@example.com").
		Return([]models.PlotSubscription{{ID: 7, Source: models.SourceSubscriptions}}, nil)

	service := NewResolverService(mockAPI, discardLogger())

	first := service.Resolve(context.Background(), "buyer@example.com")
	second := service.Resolve(context.Background(), "buyer@example.com")

	assert.Equal(t, first.Source, second.Source)
	require.NotNil(t, first.SubscriptionID)
	require.NotNil(t, second.SubscriptionID)
	assert.Equal(t, *first.SubscriptionID, *second.SubscriptionID)
}

func ptr(v int) *int { return &v }
