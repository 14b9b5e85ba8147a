package notification

import (
	"context"
	"fmt"

	"github.com/usnistgov/oar-customer-service/config"
	"github.com/usnistgov/oar-customer-service/logging"
	"gopkg.in/gomail.v2"
)

var logger = logging.Log()

const SenderTypeSmtp = "smtp"

type EmailSender interface {
	// SendEmail delivers the html content to the recipient.
	SendEmail(ctx context.Context, recipient string, subject string, htmlContent string) error
}

/**
* Returns the sender for the given type. Only smtp is supported.
 */
func NewEmailSender(senderType string, cfg config.Config) (EmailSender, error) {
	switch senderType {
	case SenderTypeSmtp:
		return NewSmtpEmailSender(cfg), nil
	default:
		return nil, fmt.Errorf("invalid sender type: %s", senderType)
	}
}

type messageDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

/**
* Sends mails through an smtp relay. STARTTLS is used whenever the relay offers it.
 */
type SmtpEmailSender struct {
	senderEmail string
	dialer      messageDialer
}

func NewSmtpEmailSender(cfg config.Config) *SmtpEmailSender {
	return &SmtpEmailSender{
		senderEmail: cfg.SenderEmail(),
		dialer:      gomail.NewDialer(cfg.SmtpHost(), cfg.SmtpPort(), cfg.SenderEmail(), cfg.SenderPassword()),
	}
}

func (s *SmtpEmailSender) SendEmail(ctx context.Context, recipient string, subject string, htmlContent string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.senderEmail)
	message.SetHeader("To", recipient)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlContent)

	if err := s.dialer.DialAndSend(message); err != nil {
		logger.Warnf("Was not able to send mail to %s. Err: %v", recipient, err)
		return fmt.Errorf("was not able to send email: %w", err)
	}
	logger.Debugf("Sent mail %q to %s.", subject, recipient)
	return nil
}
