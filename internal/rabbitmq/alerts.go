package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	rbq "github.com/magabrotheeeer/estate-aggregator/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// AlertPublisher публикует админские алерты в exchange алертов.
type AlertPublisher struct {
	ch *amqp.Channel
}

// NewAlertPublisher создает новый экземпляр AlertPublisher.
func NewAlertPublisher(ch *amqp.Channel) *AlertPublisher {
	return &AlertPublisher{ch: ch}
}

// PublishPendingAlert отправляет алерт о росте числа ожидающих заявок.
func (p *AlertPublisher) PublishPendingAlert(alert models.PendingAlert) error {
	const op = "rabbitmq.PublishPendingAlert"
	if err := rbq.PublishMessage(p.ch, rbq.AlertsExchange, "pending", alert); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
