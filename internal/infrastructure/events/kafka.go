package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loan-ledger/internal/domain/event"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON, keyed by loan id so one loan's
// events stay on one partition.
type KafkaPublisher struct {
	w     messageWriter
	topic string
}

var _ event.Publisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return &KafkaPublisher{w: w, topic: topic}
}

func newMessage(e event.Event) (kafka.Message, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s event: %w", e.Type, err)
	}
	return kafka.Message{
		Key:     []byte(e.LoanID),
		Value:   body,
		Time:    e.OccurredAt,
		Headers: []kafka.Header{{Key: "event-type", Value: []byte(e.Type)}},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		m, err := newMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, m)
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write to %s: %w", p.topic, err)
	}
	zap.L().Debug("events published", zap.String("topic", p.topic), zap.Int("count", len(msgs)))
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...event.Event) error { return nil }
