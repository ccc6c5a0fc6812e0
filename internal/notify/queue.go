package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Skotchmaster/job_portal/internal/logging"
)

// Queue publishes messages to a durable RabbitMQ queue. cmd/mailer drains
// the same queue and performs the SMTP delivery.
type Queue struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	name string
	mu   sync.Mutex
}

func DialQueue(url, name string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", name, err)
	}

	return &Queue{conn: conn, ch: ch, name: name}, nil
}

func (q *Queue) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume hands every queued message to handle until ctx is cancelled or the
// broker closes the channel.
func (q *Queue) Consume(ctx context.Context, handle func(context.Context, Message) error) error {
	if err := q.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("rabbitmq qos: %w", err)
	}
	deliveries, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return amqp.ErrClosed
			}
			HandleDelivery(ctx, d, handle)
		}
	}
}

// HandleDelivery acks on success, rejects undecodable payloads and requeues a
// failed send once.
func HandleDelivery(ctx context.Context, d amqp.Delivery, handle func(context.Context, Message) error) {
	l := logging.FromContext(ctx).With("worker", "mailer")

	var msg Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		l.Error("mail_job_rejected", "reason", "invalid payload", "error", err)
		_ = d.Reject(false)
		return
	}

	if err := handle(ctx, msg); err != nil {
		requeue := !d.Redelivered
		l.Warn("mail_job_failed", "to", msg.To, "kind", msg.Kind, "requeue", requeue, "error", err)
		_ = d.Nack(false, requeue)
		return
	}

	l.Info("mail_job_sent", "to", msg.To, "kind", msg.Kind)
	_ = d.Ack(false)
}

func (q *Queue) Close() error {
	if err := q.ch.Close(); err != nil {
		_ = q.conn.Close()
		return err
	}
	return q.conn.Close()
}
