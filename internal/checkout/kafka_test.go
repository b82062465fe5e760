package checkout

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/store"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"gotest.tools/v3/assert"
)

func setupKafka(t *testing.T) string {
	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate kafka container: %v", err)
		}
	})

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers, "broker address should not be empty")
	return brokers[0]
}

func createTopic(t *testing.T, brokerAddr, topic string) {
	conn, err := kafkaGo.Dial("tcp", brokerAddr)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkaGo.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	require.NoError(t, err)
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkaGo.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil {
		t.Logf("topic creation error (may already exist): %v", err)
	}
}

func TestOutboxPoller_PublishesToKafka(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	broker := setupKafka(t)
	createTopic(t, broker, OutboxTopic)

	repo := store.NewRepository(store.NewMemoryStore(), "kafka", nil)
	model := cart.New(ctx, repo)
	require.NoError(t, model.AddItem(ctx, domain.Product{ID: "1", Name: "Fresh Organic Apples", Price: decimal.RequireFromString("15.99")}, 2))

	publisher := NewKafkaPublisher(broker)
	defer publisher.Close()

	order, err := New(model, repo, NewSimulatedSubmitter(0)).ProcessCheckout(ctx)
	require.NoError(t, err)

	n, err := NewOutboxPoller(repo, publisher, time.Second, nil).Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reader := NewOutboxReader("storefront-test", nil, broker)
	defer reader.Close()

	received := make(chan domain.Order, 1)
	go reader.Run(ctx, func(o domain.Order) {
		select {
		case received <- o:
		default:
		}
	})

	select {
	case got := <-received:
		assert.Equal(t, order.ID, got.ID)
		assert.Equal(t, 1, len(got.Items))
		assert.Assert(t, got.Total.Equal(decimal.RequireFromString("31.98")))
		assert.Equal(t, domain.OrderStatusConfirmed, got.Status)
	case <-ctx.Done():
		t.Fatal("order never arrived on the outbox topic")
	}
}
