// Package summary реализует HTTP-обработчик пользовательского дашборда.
//
// Handler извлекает email покупателя из query-параметров, вызывает
// сборку сводки и возвращает агрегат в JSON-формате. Сборка не
// возвращает ошибок из-за отказов внешнего API: деградация отражается
// в содержимом сводки.
package summary

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Handler обрабатывает HTTP-запросы сводки дашборда.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сборки сводки дашборда.
type Service interface {
	BuildSummary(ctx context.Context, email string, userID int) models.DashboardSummary
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка дашборда покупателя
// @Description Собирает агрегат дашборда по email покупателя: взносы, остаток, график платежей, последние операции.
// @Tags Dashboard
// @Produce  json
// @Param email query string true "Email покупателя"
// @Param user_id query int false "Числовой идентификатор покупателя в унаследованной системе"
// @Success 200 {object} map[string]any "Сводка дашборда"
// @Failure 400 {object} response.ErrorResponse "Отсутствует email"
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		log.Error("email query param is missing")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email is required"))
		return
	}
	userID, _ := strconv.Atoi(r.URL.Query().Get("user_id"))

	summary := h.service.BuildSummary(r.Context(), email, userID)

	log.Info("summary built", slog.String("email", email))
	render.JSON(w, r, response.StatusOKWithData(summary))
}
