package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"
	"golang.org/x/sync/errgroup"
)

// maxInflight ограничивает число одновременно обрабатываемых сообщений.
const maxInflight = 10

// ConsumerMessage создает потребителя сообщений из очереди RabbitMQ.
// Сообщения обрабатываются параллельно, не больше maxInflight за раз;
// ошибка обработчика приводит к Nack с повторной постановкой в очередь.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	deliveries, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		var g errgroup.Group
		g.SetLimit(maxInflight)
		defer func() {
			_ = g.Wait()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				msg := d
				g.Go(func() error {
					if err := handler(msg.Body); err != nil {
						if nackErr := msg.Nack(false, true); nackErr != nil {
							slog.Warn("failed to nack message",
								slog.String("queue", queueName), slog.Any("err", nackErr))
						}
						return nil
					}
					if ackErr := msg.Ack(false); ackErr != nil {
						slog.Warn("failed to ack message",
							slog.String("queue", queueName), slog.Any("err", ackErr))
					}
					return nil
				})
			}
		}
	}()

	return nil
}
