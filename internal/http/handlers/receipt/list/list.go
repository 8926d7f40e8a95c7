// Package list реализует HTTP-обработчик списка квитанций покупателя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// Handler обрабатывает HTTP-запросы списка квитанций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения квитанций.
type Service interface {
	ListReceiptsByEmail(ctx context.Context, email string) ([]models.Receipt, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Квитанции покупателя
// @Description Возвращает квитанции об одобрении для указанного email, свежие первыми.
// @Tags Receipts
// @Produce  json
// @Param email query string true "Email покупателя"
// @Success 200 {object} map[string]any "Квитанции"
// @Failure 400 {object} response.ErrorResponse "Отсутствует email"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /receipts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.receipt.list"

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

	receipts, err := h.service.ListReceiptsByEmail(r.Context(), email)
	if err != nil {
		log.Error("failed to list receipts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list receipts"))
		return
	}

	log.Info("receipts listed", slog.Int("count", len(receipts)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"receipts": receipts,
	}))
}
