// Package email implements the operator alert channel over SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"helpdesk/internal/domain/delivery"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
)

// OperatorAlertService mails a human operator when an outbound delivery
// exhausts its retry budget. It is the last resort channel, so its own
// failures are only logged.
type OperatorAlertService struct {
	dialer       *gomail.Dialer
	fromAddress  string
	operatorAddr string
	logger       logger.Interface
}

func NewOperatorAlertService(cfg *config.EmailConfig, logger logger.Interface) *OperatorAlertService {
	return &OperatorAlertService{
		dialer:       gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		fromAddress:  cfg.FromAddress,
		operatorAddr: cfg.OperatorAddr,
		logger:       logger,
	}
}

func (s *OperatorAlertService) Alert(ctx context.Context, intent delivery.Intent, lastErr error) error {
	if s.operatorAddr == "" {
		s.logger.Warnw("operator address not configured, dropping alert",
			"kind", string(intent.Kind), "recipient_id", intent.RecipientID)
		return nil
	}

	subject := fmt.Sprintf("[helpdesk] delivery failed: %s to %d", intent.Kind, intent.RecipientID)
	body := fmt.Sprintf(`A message could not be delivered after exhausting retries.

Kind:      %s
Recipient: %d
Ticket:    %d
Error:     %v

The underlying ticket state is already committed; only the notification was lost.`,
		intent.Kind, intent.RecipientID, intent.TicketID, lastErr)

	m := gomail.NewMessage()
	m.SetHeader("From", s.fromAddress)
	m.SetHeader("To", s.operatorAddr)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send operator alert: %w", err)
	}

	s.logger.Infow("operator alerted about failed delivery",
		"kind", string(intent.Kind), "recipient_id", intent.RecipientID, "ticket_id", intent.TicketID)
	return nil
}
