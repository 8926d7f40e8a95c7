package estateaggregator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/admin/overview"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/admin/snapshots"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/dashboard/summary"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/payment/status"
	receiptlist "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/receipt/list"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/subscription/approve"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/subscription/reject"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	adminstats "github.com/magabrotheeeer/estate-aggregator/internal/services/adminstats"
	approval "github.com/magabrotheeeer/estate-aggregator/internal/services/approval"
	auth "github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
	dashboard "github.com/magabrotheeeer/estate-aggregator/internal/services/dashboard"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *auth.AuthService,
	dashboardService *dashboard.DashboardService,
	statsService *adminstats.AdminStatsService,
	approvalService *approval.ApprovalService,
	db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/dashboard/summary", summary.New(logger, dashboardService).ServeHTTP)
			r.Get("/receipts", receiptlist.New(logger, db).ServeHTTP)

			// Только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/admin/overview", overview.New(logger, statsService).ServeHTTP)
				r.Get("/admin/snapshots", snapshots.New(logger, db).ServeHTTP)
				r.Put("/subscriptions/{id}/approve", approve.New(logger, approvalService).ServeHTTP)
				r.Put("/subscriptions/{id}/reject", reject.New(logger, approvalService).ServeHTTP)
				r.Patch("/payments/{kind}/{id}/status", status.New(logger, approvalService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
