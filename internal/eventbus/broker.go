package eventbus

import (
	"context"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Producer defines the interface for publishing raw messages to the broker.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Consumer defines the interface for consuming raw messages from the broker.
type Consumer interface {
	ReadMessage(ctx context.Context) (*kafka.Message, error)
	Close() error
}

// ConsumerFactory opens one broker consumer for a (group, topics) pair.
type ConsumerFactory func(groupID string, topics []string) (Consumer, error)

func newKafkaProducer(brokers []string, tp trace.TracerProvider) (Producer, error) {
	// Topic is left empty so each message carries its own; the hash balancer
	// gives messages with the same key the same partition.
	base := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
	}

	return otelkafka.NewWriter(base,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
	)
}

func newKafkaConsumerFactory(brokers []string) ConsumerFactory {
	return func(groupID string, topics []string) (Consumer, error) {
		base := kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     groupID,
			GroupTopics: topics,
			StartOffset: kafka.FirstOffset,
		})
		return otelkafka.NewReader(base)
	}
}
