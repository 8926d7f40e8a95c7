// Package estateaggregator собирает основное приложение: HTTP API,
// фоновые опросы и зависимости (PostgreSQL, Redis, RabbitMQ, удалённый
// estate API).
package estateaggregator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/estate-aggregator/internal/cache"
	"github.com/magabrotheeeer/estate-aggregator/internal/config"
	"github.com/magabrotheeeer/estate-aggregator/internal/estateapi"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/jwt"
	rbq "github.com/magabrotheeeer/estate-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/migrations"
	"github.com/magabrotheeeer/estate-aggregator/internal/rabbitmq"
	adminstats "github.com/magabrotheeeer/estate-aggregator/internal/services/adminstats"
	approval "github.com/magabrotheeeer/estate-aggregator/internal/services/approval"
	auth "github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
	dashboard "github.com/magabrotheeeer/estate-aggregator/internal/services/dashboard"
	poller "github.com/magabrotheeeer/estate-aggregator/internal/services/poller"
	resolver "github.com/magabrotheeeer/estate-aggregator/internal/services/resolver"
	statuswatch "github.com/magabrotheeeer/estate-aggregator/internal/services/statuswatch"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// App инкапсулирует HTTP сервер, фоновые опросы и соединения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection
	pollers  []*poller.Poller
}

// New создает приложение и все его зависимости.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	apiClient := estateapi.NewClient(cfg.BaseURL, cfg.APITimeout)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.NewAuthService(db, jwtMaker)

	resolverService := resolver.NewResolverService(apiClient, logger)
	dashboardService := dashboard.NewDashboardService(resolverService, apiClient,
		cacheRedis, cfg.SummaryTTL, logger)
	approvalService := approval.NewApprovalService(apiClient, db, cacheRedis,
		cache.SummaryKey, logger)

	// Алерты публикуются в RabbitMQ; без брокера статистика продолжает
	// собираться, просто без рассылки.
	var (
		amqpConn  *amqp.Connection
		publisher adminstats.AlertPublisher
	)
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, pending alerts disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rbq.GetAlertQueues())
		if err != nil {
			logger.Warn("rabbitmq channel setup failed, pending alerts disabled", sl.Err(err))
			conn.Close()
		} else {
			amqpConn = conn
			publisher = rabbitmq.NewAlertPublisher(ch)
		}
	}

	statsService := adminstats.NewAdminStatsService(apiClient, publisher, db, logger)
	watchService := statuswatch.NewStatusWatchService(apiClient, cacheRedis,
		cache.SummaryKey, logger)

	pollers := []*poller.Poller{
		poller.NewPoller("user-status", cfg.UserStatusInterval, watchService.CheckOnce, logger),
		poller.NewPoller("admin-refresh", cfg.AdminRefreshInterval, func(ctx context.Context) {
			statsService.Collect(ctx)
		}, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, dashboardService, statsService,
		approvalService, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
		pollers:  pollers,
	}, nil
}

// Run запускает HTTP сервер и фоновые опросы, блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	for _, p := range a.pollers {
		go p.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(closeErr))
			}
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		return err
	}
}
