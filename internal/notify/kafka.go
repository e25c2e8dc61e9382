package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaNotifier publishes envelopes to Kafka topics. Each Send is a
// synchronous produce so the caller learns about broker failures instead of
// silently dropping events.
type KafkaNotifier struct {
	client *kgo.Client
	logger *slog.Logger
}

// KafkaOption configures the KafkaNotifier.
type KafkaOption func(*KafkaNotifier)

// WithLogger sets a logger for produce diagnostics.
func WithLogger(logger *slog.Logger) KafkaOption {
	return func(n *KafkaNotifier) {
		n.logger = logger
	}
}

// NewKafkaNotifier connects a producer to the given brokers.
func NewKafkaNotifier(brokers []string, opts ...KafkaOption) (*KafkaNotifier, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	n := &KafkaNotifier{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Send implements Notifier.
func (n *KafkaNotifier) Send(ctx context.Context, topic string, envelope Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("serialize %s envelope: %w", envelope.Type, err)
	}

	record := &kgo.Record{Topic: topic, Value: payload}
	if err := n.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", topic, err)
	}
	return nil
}

// Close flushes buffered records and releases the producer.
func (n *KafkaNotifier) Close() {
	n.client.Close()
}
