package approve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	approval "github.com/magabrotheeeer/estate-aggregator/internal/services/approval"
)

// MockService реализует интерфейс approve.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Approve(ctx context.Context, subscriptionID int, operator string) (models.Receipt, error) {
	args := m.Called(ctx, subscriptionID, operator)
	return args.Get(0).(models.Receipt), args.Error(1)
}

func TestApproveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		operator       string
		setupMock      func(*MockService)
		expectedStatus int
	}{
		{
			name:     "успешное одобрение",
			id:       "7",
			operator: "operator1",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, 7, "operator1").
					Return(models.Receipt{ID: 1, Number: "receipt-uuid", SubscriptionID: 7}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "некорректный идентификатор",
			id:             "abc",
			operator:       "operator1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "заявка не найдена",
			id:       "99",
			operator: "operator1",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, 99, "operator1").
					Return(models.Receipt{}, approval.ErrSubscriptionNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:     "ошибка исходной системы",
			id:       "7",
			operator: "operator1",
			setupMock: func(m *MockService) {
				m.On("Approve", mock.Anything, 7, "operator1").
					Return(models.Receipt{}, errors.New("api unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			handler := New(logger, mockSvc)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/subscriptions/"+tt.id+"/approve", nil)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middlewarectx.User, tt.operator)
			ctx = context.WithValue(ctx, chimw.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}
