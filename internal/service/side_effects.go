package service

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/job_portal/internal/events"
	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/notify"
)

const (
	publishTimeout = 5 * time.Second
	mailTimeout    = 15 * time.Second
)

// publish never fails the caller; a lost event is logged.
func publish(ctx context.Context, p events.Publisher, key string, ev events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.Publish(ctx, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", ev.Type, "key", key, "error", err)
	}
}

func sendMail(ctx context.Context, m notify.Mailer, msg notify.Message) error {
	ctx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	return m.Send(ctx, msg)
}

// notifyBestEffort sends msg after a state change has been committed. The
// outcome is reported but never undoes the change.
func notifyBestEffort(ctx context.Context, m notify.Mailer, msg notify.Message) bool {
	if m == nil {
		return false
	}
	if err := sendMail(ctx, m, msg); err != nil {
		logging.FromContext(ctx).Error("mail_dispatch_failed", "kind", msg.Kind, "to", msg.To, "error", err)
		return false
	}
	return true
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
