// Package approve реализует HTTP-обработчик одобрения заявки на участки.
//
// Handler извлекает идентификатор заявки из URL, имя оператора из
// контекста и делегирует одобрение сервису. При успехе возвращает
// выписанную квитанцию.
package approve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	approval "github.com/magabrotheeeer/estate-aggregator/internal/services/approval"
)

// Handler обрабатывает HTTP-запросы одобрения заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики одобрения.
type Service interface {
	Approve(ctx context.Context, subscriptionID int, operator string) (models.Receipt, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Одобрение заявки на участки
// @Description Одобряет заявку в исходной системе, выписывает квитанцию и сбрасывает кэш сводки покупателя.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "Идентификатор заявки"
// @Success 200 {object} map[string]any "Квитанция"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/{id}/approve [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.approve"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid subscription id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid subscription id"))
		return
	}

	operator, _ := r.Context().Value(middlewarectx.User).(string)

	receipt, err := h.service.Approve(r.Context(), id, operator)
	if err != nil {
		if errors.Is(err, approval.ErrSubscriptionNotFound) {
			log.Error("subscription not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
			return
		}
		log.Error("failed to approve subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve subscription"))
		return
	}

	log.Info("subscription approved",
		slog.Int("id", id),
		slog.String("receipt", receipt.Number))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"receipt": receipt,
	}))
}
