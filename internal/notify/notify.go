package notify

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"sync"

	"github.com/Skotchmaster/job_portal/internal/logging"
)

var ErrInvalidRecipient = errors.New("invalid recipient address")

// Message is one outbound HTML email. It is also the wire format of the
// email job queue.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Kind    string `json:"kind,omitempty"`
}

func (m Message) Validate() error {
	if _, err := mail.ParseAddress(m.To); err != nil {
		return ErrInvalidRecipient
	}
	return nil
}

// Mailer delivers a message. Callers that treat email as best effort log the
// error and carry on.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	l := m.Logger
	if l == nil {
		l = logging.FromContext(ctx)
	}
	l.Info("mail_logged", "to", msg.To, "subject", msg.Subject, "kind", msg.Kind)
	return nil
}

// Recorder keeps every sent message in memory. Err, when set, is returned
// from Send after the message is recorded as attempted.
type Recorder struct {
	mu       sync.Mutex
	Sent     []Message
	Attempts int
	Err      error
}

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Attempts++
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, msg)
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.Sent...)
}
