// Package smtp предоставляет транспорт для отправки почтовых алертов.
package smtp

import "io"

// Client — минимальный набор операций SMTP сессии, достаточный для
// отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает SMTP сессии и сообщает адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
