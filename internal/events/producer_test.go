package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { w.closed = true; return nil }

func TestProducer_Publish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	err := p.Publish(context.Background(), "req-1", Event{
		Type:       TypeAdminApproved,
		SubjectID:  "req-1",
		Email:      "ann@example.com",
		Attributes: map[string]string{"promoted": "true"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "req-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, TypeAdminApproved, string(msg.Headers[0].Value))

	var ev Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, "ann@example.com", ev.Email)
	assert.False(t, ev.OccurredAt.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	t.Parallel()

	p := NewProducerWithWriter(&fakeWriter{err: errors.New("broker down")})
	err := p.Publish(context.Background(), "k", Event{Type: TypeJobPosted})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), "k", Event{}))
	assert.NoError(t, p.Close())
}
