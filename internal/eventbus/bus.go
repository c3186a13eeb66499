package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// PublishErrorKind distinguishes where a publish attempt failed.
type PublishErrorKind string

const (
	// KindSerialization means the payload could not be encoded; nothing was
	// sent to the broker.
	KindSerialization PublishErrorKind = "serialization"
	// KindTransport means the broker write itself failed.
	KindTransport PublishErrorKind = "transport"
)

// PublishError is returned by Bus.Publish. Publishes are never retried
// internally; the caller decides whether to retry, drop, or escalate.
type PublishError struct {
	Kind  PublishErrorKind
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %q failed (%s): %v", e.Topic, e.Kind, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Publisher is the producing half of the bus, accepted by services that only
// need to emit events.
type Publisher interface {
	Publish(ctx context.Context, payload any, topic, key string) error
}

// Bus is a thin typed layer over a single broker producer plus a consumer
// factory. Subscribe opens one consumer (and one pump goroutine) per call;
// all publishes share the one producer.
type Bus struct {
	producer       Producer
	consumers      ConsumerFactory
	logger         *zap.Logger
	receiverBuffer int
}

// Option configures a Bus.
type Option func(*Bus)

// WithReceiverBuffer sets the per-receiver channel capacity used by
// listeners created from this bus.
func WithReceiverBuffer(n int) Option {
	return func(b *Bus) { b.receiverBuffer = n }
}

const defaultReceiverBuffer = 100

// Config holds the broker connection settings for a real Kafka bus.
type Config struct {
	Brokers []string
}

// New connects a Bus to Kafka. The producer and every consumer are wrapped
// with OpenTelemetry instrumentation so trace context travels in message
// headers.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Bus, error) {
	producer, err := newKafkaProducer(cfg.Brokers, otel.GetTracerProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewWithBroker(producer, newKafkaConsumerFactory(cfg.Brokers), logger, opts...), nil
}

// NewWithBroker builds a Bus over explicit broker implementations. This is
// the injection point for test doubles.
func NewWithBroker(producer Producer, consumers ConsumerFactory, logger *zap.Logger, opts ...Option) *Bus {
	b := &Bus{
		producer:       producer,
		consumers:      consumers,
		logger:         logger,
		receiverBuffer: defaultReceiverBuffer,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish serializes payload and hands it to the broker tagged with topic
// and key. Messages sharing a key keep their relative order; messages with
// different keys carry no ordering guarantee. The call does one round trip
// and is not retried on failure.
func (b *Bus) Publish(ctx context.Context, payload any, topic, key string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &PublishError{Kind: KindSerialization, Topic: topic, Err: err}
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: body,
	}
	if err := b.producer.WriteMessage(ctx, msg); err != nil {
		return &PublishError{Kind: KindTransport, Topic: topic, Err: err}
	}

	b.logger.Debug("message published",
		zap.String("topic", topic),
		zap.String("key", key),
	)
	return nil
}

// Close releases the shared producer. Listeners own their consumers and are
// shut down through the context passed to Subscribe.
func (b *Bus) Close() error {
	if b.producer == nil {
		return nil
	}
	return b.producer.Close()
}
