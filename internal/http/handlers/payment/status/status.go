// Package status реализует HTTP-обработчик смены статуса платежа.
//
// Handler принимает вид платежа и идентификатор из URL, новый статус
// из тела запроса и делегирует смену статуса сервису. Админские платежи
// живут внутри записей покупателей и отдельного эндпоинта смены статуса
// не имеют.
package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Handler обрабатывает HTTP-запросы смены статуса платежа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены статуса платежа.
type Service interface {
	UpdatePaymentStatus(ctx context.Context, kind models.PaymentKind, id int, status string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Смена статуса платежа
// @Description Меняет статус первоначального или последующего платежа в исходной системе.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param kind path string true "Вид платежа: initial или subsequent"
// @Param id path int true "Идентификатор платежа"
// @Param request body models.PaymentStatusRequest true "Новый статус"
// @Success 200 {object} map[string]any "Статус изменён"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /payments/{kind}/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind := models.PaymentKind(chi.URLParam(r, "kind"))
	if kind != models.KindInitial && kind != models.KindSubsequent {
		log.Error("invalid payment kind", slog.String("kind", string(kind)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment kind"))
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid payment id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment id"))
		return
	}

	var req models.PaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.UpdatePaymentStatus(r.Context(), kind, id, req.Status); err != nil {
		log.Error("failed to update payment status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update payment status"))
		return
	}

	log.Info("payment status updated",
		slog.String("kind", string(kind)),
		slog.Int("id", id),
		slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"status": req.Status,
	}))
}
