package mailer

import (
	"fmt"
	"time"

	"cinema-ticketing/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends the session-cancellation notice over SMTP. Delivery is
// best-effort: callers log failures and never roll back on them.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewMailer(config utils.EmailConfig, log *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
		log:    log.With(zap.String("component", "mailer")),
	}
}

// NotifyCancellation emails one ticket holder that their session was
// cancelled.
func (m *Mailer) NotifyCancellation(recipient string, showDate, startTime time.Time) error {
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"We are sorry to inform you that the session scheduled for %s at %s has been cancelled.\n\n"+
			"We apologize for the inconvenience.\n\n"+
			"The cinema team",
		showDate.Format("2006-01-02"), startTime.Format("15:04"),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", "Session cancelled")
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send cancellation notice to %s: %w", recipient, err)
	}

	m.log.Info("Cancellation notice sent", zap.String("recipient", recipient))
	return nil
}
