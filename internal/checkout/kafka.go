package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	OutboxTopic         = "checkout-outbox"
	orderConfirmedEvent = "OrderConfirmed"
)

// KafkaPublisher writes recorded orders to the checkout outbox topic, keyed
// by order id so one order's events stay on one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OutboxTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (k *KafkaPublisher) Publish(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order %s: %w", order.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(orderConfirmedEvent)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order %s: %w", order.ID, err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// OutboxReader follows the outbox topic and hands every decoded order to a
// handler. Undecodable messages are logged and skipped.
type OutboxReader struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewOutboxReader(groupID string, logger *zap.Logger, brokers ...string) *OutboxReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    OutboxTopic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &OutboxReader{reader: reader, logger: logger}
}

// Run blocks until ctx is done.
func (r *OutboxReader) Run(ctx context.Context, handle func(domain.Order)) {
	for ctx.Err() == nil {
		order, ok := r.next(ctx)
		if ok {
			handle(order)
		}
	}
}

func (r *OutboxReader) next(ctx context.Context) (domain.Order, bool) {
	m, err := r.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			r.logger.Error("error reading outbox message", zap.Error(err))
		}
		return domain.Order{}, false
	}

	var order domain.Order
	if err := json.Unmarshal(m.Value, &order); err != nil {
		r.logger.Warn("skipping malformed outbox message", zap.ByteString("key", m.Key), zap.Error(err))
		return domain.Order{}, false
	}
	return order, true
}

func (r *OutboxReader) Close() error {
	return r.reader.Close()
}
