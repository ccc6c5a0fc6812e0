package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Skotchmaster/job_portal/internal/config"
	"github.com/Skotchmaster/job_portal/internal/logging"
	"github.com/Skotchmaster/job_portal/internal/notify"
)

// The mailer drains the email queue filled by the server when
// MAIL_TRANSPORT=queue and delivers each message over SMTP.
func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.RabbitMQURL, "RABBITMQ_URL")
	config.MustNonEmpty(cfg.SMTP.User, "SMTP_USER")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-mailer")
	slog.SetDefault(logger)

	smtp, err := notify.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		log.Fatalf("smtp: %v", err)
	}

	q, err := notify.DialQueue(cfg.RabbitMQURL, cfg.MailQueueName)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() {
		if err := q.Close(); err != nil {
			logger.Error("queue_close_failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, logger)

	logger.Info("mailer_consuming", "queue", cfg.MailQueueName)
	if err := q.Consume(ctx, smtp.Send); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mailer_stopped", "error", err)
		return
	}
	logger.Info("mailer_stopped")
}
