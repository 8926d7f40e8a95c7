// Package alertsender собирает сервис рассылки алертов: потребитель
// очереди RabbitMQ и SMTP отправка писем операторам.
package alertsender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/estate-aggregator/internal/config"
	rbq "github.com/magabrotheeeer/estate-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/smtp"
	"github.com/magabrotheeeer/estate-aggregator/internal/rabbitmq"
	sender "github.com/magabrotheeeer/estate-aggregator/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *sender.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rbq.GetAlertQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := sender.NewSenderService(cfg, logger, transport)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, "alerts.pending", a.senderService.SendPendingAlert)
	if err != nil {
		a.logger.Error("failed to start alerts.pending consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("alert-sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
