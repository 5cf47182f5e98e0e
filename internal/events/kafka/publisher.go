package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tinoosan/bookkeeper/internal/events"
)

// Publisher writes EntryRecorded events to a Kafka topic, keyed by ledger kind
// so that each ledger's events stay ordered within a partition.
//
// Writes are asynchronous: Publish hands the message to the writer's batch and
// returns, and delivery failures are logged from the completion callback.
type Publisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

// NewPublisher returns a publisher for topic on brokers. An empty topic means
// events.TopicEntryRecorded; a nil logger means slog.Default.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	if topic == "" {
		topic = events.TopicEntryRecorded
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Publisher{log: logger}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		Async:        true,
		Completion:   p.completed,
	}
	return p
}

// completed runs on the writer's goroutine once a batch is acknowledged or
// has exhausted its attempts.
func (p *Publisher) completed(msgs []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range msgs {
		p.log.Warn("kafka publish failed", "topic", p.writer.Topic, "kind", string(m.Key), "err", err)
	}
}

// Publish implements events.Publisher. It does not wait for the broker; an
// error here means the event could not be encoded or the writer is closed.
func (p *Publisher) Publish(ctx context.Context, ev events.EntryRecorded) error {
	msg, err := Message(ev)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	return nil
}

// Close flushes pending asynchronous writes and releases the connection.
func (p *Publisher) Close() error { return p.writer.Close() }

// Message encodes ev as a Kafka message.
func Message(ev events.EntryRecorded) (kafka.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.Kind),
		Value: data,
		Time:  ev.RecordedAt,
	}, nil
}

var _ events.Publisher = (*Publisher)(nil)
