package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeUserRegistered       = "user.registered"
	TypeUserGoogleCreated    = "user.google_created"
	TypePasswordChanged      = "user.password_changed"
	TypeAdminRequested       = "admin.requested"
	TypeAdminApproved        = "admin.approved"
	TypeAdminRejected        = "admin.rejected"
	TypeAdminRemoved         = "admin.removed"
	TypeJobPosted            = "job.posted"
	TypeJobDeleted           = "job.deleted"
	TypeApplicationSubmitted = "application.submitted"
	TypeApplicationDecided   = "application.decided"
)

// Event is the JSON envelope written to the portal topic.
type Event struct {
	Type       string            `json:"type"`
	SubjectID  string            `json:"subject_id"`
	Email      string            `json:"email,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, ev Event) error
	Close() error
}

// Writer is the part of *kafka.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	})
}

func NewProducerWithWriter(w Writer) *Producer {
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, key string, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Nop drops every event; used when KAFKA_BROKERS is unset.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }
