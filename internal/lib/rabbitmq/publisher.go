// Package rabbitmq содержит вспомогательные функции публикации сообщений
// в очередь алертов.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// PublishMessage сериализует message в JSON и публикует его в exchange
// с указанным ключом маршрутизации. Сообщения помечаются persistent,
// чтобы переживать перезапуск брокера.
func PublishMessage(ch *amqp.Channel, exchange, routingKey string, message any) error {
	const op = "rabbitmq.PublishMessage"

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: marshal message: %w", op, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	}
	if err := ch.Publish(exchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("%s: publish to %s/%s: %w", op, exchange, routingKey, err)
	}

	return nil
}
