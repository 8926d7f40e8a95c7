// Package snapshots реализует HTTP-обработчик истории снапшотов статистики.
package snapshots

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/response"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

const defaultLimit = 20

// Handler обрабатывает HTTP-запросы истории снапшотов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения истории снапшотов.
type Service interface {
	ListSnapshots(ctx context.Context, limit int) ([]models.StatsSnapshot, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary История снапшотов статистики
// @Description Возвращает последние сохранённые снапшоты админской статистики, свежие первыми.
// @Tags Admin
// @Produce  json
// @Param limit query int false "Максимальное число снапшотов (по умолчанию 20)"
// @Success 200 {object} map[string]any "Снапшоты"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /admin/snapshots [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.snapshots"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}

	snapshots, err := h.service.ListSnapshots(r.Context(), limit)
	if err != nil {
		log.Error("failed to list snapshots", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list snapshots"))
		return
	}

	log.Info("snapshots listed", slog.Int("count", len(snapshots)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"snapshots": snapshots,
	}))
}
