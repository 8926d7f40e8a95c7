// Package services содержит бизнес-логику приложения.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/estate-aggregator/internal/config"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/estate-aggregator/internal/lib/smtp"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
)

// SenderService отправляет почтовые алерты администраторам.
type SenderService struct {
	transport  smtp.TransportInterface
	recipients []string
	log        *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(cfg *config.Config, log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport:  transport,
		recipients: cfg.AlertRecipients,
		log:        log,
	}
}

// SendPendingAlert рассылает уведомление о росте числа ожидающих заявок.
// Тело сообщения приходит из очереди в формате JSON.
func (s *SenderService) SendPendingAlert(body []byte) error {
	var alert models.PendingAlert
	if err := json.Unmarshal(body, &alert); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	if len(s.recipients) == 0 {
		s.log.Warn("no alert recipients configured, dropping alert")
		return nil
	}

	subject := "Новые заявки ожидают рассмотрения"
	bodyText := fmt.Sprintf(
		"Число ожидающих заявок выросло с %d до %d.\n\nЗафиксировано: %s.\nЗайдите в панель управления и обработайте новые заявки.",
		alert.Previous, alert.PendingRequests,
		alert.CollectedAt.Format("02.01.2006 15:04:05 MST"))

	return s.sendEmail(s.recipients, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("alert email sent", slog.Any("to", to))
	return nil
}
