// Package overview реализует HTTP-обработчик админской статистики.
//
// Handler возвращает последний собранный агрегат статистики. Сбор
// выполняется синхронно: администратор всегда видит свежие данные,
// фоновый опрос лишь греет снапшоты и алерты.
package overview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Handler обрабатывает HTTP-запросы админской статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сбора админской статистики.
type Service interface {
	Collect(ctx context.Context) models.AdminStats
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводная статистика для администратора
// @Description Возвращает агрегат по всем покупателям: суммы одобренных и ожидающих платежей, участки, дебиторская задолженность.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Статистика"
// @Security BearerAuth
// @Router /admin/overview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.overview"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats := h.service.Collect(r.Context())

	log.Info("admin stats collected",
		slog.Int("pending_requests", stats.PendingRequests),
		slog.Any("degraded", stats.Degraded))
	render.JSON(w, r, response.StatusOKWithData(stats))
}
