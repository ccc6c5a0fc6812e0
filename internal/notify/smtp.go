package notify

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/Skotchmaster/job_portal/internal/config"
)

// SMTPMailer sends through an authenticated SMTP relay (STARTTLS when
// offered), from "<FromName> <User>".
type SMTPMailer struct {
	client   *gomail.Client
	from     string
	fromName string
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.User, fromName: cfg.FromName}, nil
}

func (m *SMTPMailer) build(msg Message) (*gomail.Msg, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	gm := gomail.NewMsg()
	if err := gm.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := gm.To(msg.To); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	gm.Subject(msg.Subject)
	gm.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return gm, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	gm, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, gm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
