package utils

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/tajkir-alam/music-camp-server/internal/config"
)

// Mailer delivers HTML notification emails over SMTP. A Mailer built from an
// empty SMTP host only logs what it would have sent.
type Mailer struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	logger *logrus.Logger
}

func NewMailer(cfg config.SMTPConfig, logger *logrus.Logger) *Mailer {
	m := &Mailer{cfg: cfg, logger: logger}
	if cfg.Enabled() {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// SendEmail sends an HTML email to a single recipient.
func (m *Mailer) SendEmail(to string, subject string, body string) error {
	if m.dialer == nil {
		m.logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("smtp disabled, email dropped")
		return nil
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.cfg.From)
	mailer.SetHeader("To", to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(mailer); err != nil {
		m.logger.WithError(err).WithField("to", to).Warn("failed to send email")
		return errors.Wrap(err, "sending email")
	}

	m.logger.WithField("to", to).Info("email sent")
	return nil
}
