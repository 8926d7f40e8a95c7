package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// AlertsExchange — exchange для админских алертов.
const AlertsExchange = "alerts"

// GetAlertQueues возвращает очереди алертов для воркера-отправителя.
func GetAlertQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "alerts.pending", RoutingKey: "pending"},
	}
}
