package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaRelay forwards dispatched domain events to a Kafka topic.
// Delivery is best-effort: a broker failure is logged and dropped.
type KafkaRelay struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaRelay creates the relay writer.
func NewKafkaRelay(brokers []string, topic string, logger *zap.Logger) *KafkaRelay {
	return &KafkaRelay{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// Register subscribes the relay to every event on the dispatcher.
func (r *KafkaRelay) Register(dispatcher Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.SubscribeAll(r.handle)
}

func (r *KafkaRelay) handle(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(string(event.Type)),
		Value: data,
	}
	if err := r.writer.WriteMessages(ctx, msg); err != nil {
		r.logger.Warn("kafka relay publish failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}

// Close closes the Kafka writer.
func (r *KafkaRelay) Close() error {
	return r.writer.Close()
}
