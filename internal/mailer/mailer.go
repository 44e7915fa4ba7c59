// Package mailer delivers plain-text email over SMTP, or to the log when no
// SMTP host is configured.
package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/config"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTPSender, or a LogSender when cfg.Host is empty.
func New(cfg *config.MailSettings) Sender {
	if cfg.Host == "" {
		log.Warn().Msg("SMTP host not configured, emails will only be logged")
		return &LogSender{}
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends email through an SMTP server using go-mail.
type SMTPSender struct {
	cfg *config.MailSettings
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg *config.MailSettings) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send composes and delivers a plain-text message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg, err := s.buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	log.Debug().
		Str("to", utils.MaskEmail(to)).
		Str("subject", subject).
		Msg("Email sent")

	return nil
}

func (s *SMTPSender) buildMessage(to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return msg, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS on 465, STARTTLS elsewhere
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	return opts
}

// LogSender writes emails to the application log instead of sending them.
type LogSender struct{}

// Send logs the message. The body is only logged at debug level.
func (LogSender) Send(_ context.Context, to, subject, body string) error {
	log.Info().
		Str("to", utils.MaskEmail(to)).
		Str("subject", subject).
		Msg("Email not sent, SMTP disabled")
	log.Debug().
		Str("subject", subject).
		Str("body", body).
		Msg("Email body")
	return nil
}
