package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds SMTP connection parameters.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string // optional - some servers allow unauthenticated relay
	Password string // optional
	From     string // default sender address
	FromName string // optional sender display name
}

// SMTPSender implements Sender using go-mail. TLS policy follows the port:
// implicit TLS on 465, mandatory STARTTLS on 587, opportunistic elsewhere.
type SMTPSender struct {
	config *SMTPConfig
	logger *slog.Logger
}

// NewSMTPSender creates an SMTP sender from a config struct.
func NewSMTPSender(config *SMTPConfig, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		config: config,
		logger: logger,
	}
}

// Send sends an email via SMTP using go-mail.
func (s *SMTPSender) Send(ctx context.Context, email *Email) (string, error) {
	s.logger.Debug("smtp: preparing email",
		"to", email.To,
		"subject", email.Subject,
		"host", s.config.Host,
		"port", s.config.Port,
	)

	msg, err := s.buildMessage(email)
	if err != nil {
		return "", err
	}

	client, err := mail.NewClient(s.config.Host, s.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("smtp: failed to send email", "error", err)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("smtp: email sent", "to", email.To, "subject", email.Subject)

	// SMTP does not hand back a reliable message id.
	return fmt.Sprintf("smtp-%d-%d", time.Now().UnixNano(), len(email.To)), nil
}

func (s *SMTPSender) buildMessage(email *Email) (*mail.Msg, error) {
	msg := mail.NewMsg()

	from := email.From
	if from == "" {
		from = s.config.From
	}
	if s.config.FromName != "" && email.From == "" {
		if err := msg.FromFormat(s.config.FromName, from); err != nil {
			return nil, fmt.Errorf("invalid from address: %w", err)
		}
	} else if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	if err := msg.To(email.To...); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
	}

	msg.Subject(email.Subject)

	// Prefer HTML with a text fallback.
	switch {
	case email.HTMLBody != "" && email.TextBody != "":
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, email.HTMLBody)
	case email.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, email.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, email.TextBody)
	}

	for key, value := range email.Headers {
		msg.SetGenHeader(mail.Header(key), value)
	}

	return msg, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.config.Port),
		mail.WithTimeout(30 * time.Second),
	}

	switch s.config.Port {
	case 465:
		opts = append(opts, mail.WithSSL())
	case 587:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		// 25, or 1025 for a local Mailpit
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	if s.config.Username != "" && s.config.Password != "" {
		opts = append(opts,
			mail.WithUsername(s.config.Username),
			mail.WithPassword(s.config.Password),
			mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		)
	}

	return opts
}

// LogSender writes emails to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, email *Email) (string, error) {
	s.Logger.Info("email (not sent, SMTP disabled)",
		"to", email.To,
		"subject", email.Subject,
		"body", email.TextBody,
	)
	return "", nil
}
