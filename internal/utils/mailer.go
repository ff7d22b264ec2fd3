package utils

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"clanci-blog/internal/config"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPClient hands HTML messages to an SMTP relay. A nil error means the
// relay accepted the message, not that it was delivered.
type SMTPClient struct {
	from    string
	name    string
	timeout time.Duration
	d       dialer
	logger  *zap.Logger
}

func NewSMTPClient(cfg config.SMTPConfig, logger *zap.Logger) *SMTPClient {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return &SMTPClient{
		from:    cfg.FromEmail,
		name:    cfg.FromName,
		timeout: cfg.SendTimeout,
		d:       d,
		logger:  logger.Named("SMTPClient"),
	}
}

func (s *SMTPClient) Send(ctx context.Context, to, subject, htmlBody string) error {
	if s == nil || s.d == nil {
		return fmt.Errorf("smtp not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.name)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("email send cancelled", zap.String("to", to), zap.Error(ctx.Err()))
		return fmt.Errorf("send email: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("email send failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
			return fmt.Errorf("send email: %w", err)
		}
	}
	s.logger.Info("email accepted for delivery", zap.String("to", to), zap.String("subject", subject))
	return nil
}
