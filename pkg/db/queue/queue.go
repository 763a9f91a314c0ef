package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/erain9/matchbook/pkg/messaging"
)

var (
	brokerList = "localhost:9092"
	topic      = "trade-msg-queue"

	// newSyncProducer is swapped out in tests
	newSyncProducer = sarama.NewSyncProducer
)

// SetBrokerList overrides the Kafka broker address used by new senders
func SetBrokerList(brokers string) {
	brokerList = brokers
}

// SetTopic overrides the Kafka topic used by new senders
func SetTopic(t string) {
	topic = t
}

// QueueMessageSender implements the MessageSender interface
// for sending messages to Kafka
type QueueMessageSender struct {
	producer sarama.SyncProducer
	topic    string
}

// NewQueueMessageSender creates a sender with its own Kafka producer
func NewQueueMessageSender() (*QueueMessageSender, error) {
	producer, err := newSyncProducer([]string{brokerList}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &QueueMessageSender{
		producer: producer,
		topic:    topic,
	}, nil
}

// SendTradeMessage sends the TradeMessage to the Kafka queue
func (q *QueueMessageSender) SendTradeMessage(ctx context.Context, msg *messaging.TradeMessage) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal trade message: %w", err)
	}

	producerMsg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(msg.Security),
		Value: sarama.ByteEncoder(messageBytes),
	}

	if _, _, err := q.producer.SendMessage(producerMsg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the underlying producer
func (q *QueueMessageSender) Close() error {
	return q.producer.Close()
}

// Ensure QueueMessageSender implements MessageSender
var _ messaging.MessageSender = (*QueueMessageSender)(nil)

// QueueMessageConsumer consumes trade messages from Kafka
type QueueMessageConsumer struct {
	consumer sarama.Consumer
	topic    string
}

// NewQueueMessageConsumer creates a consumer for the configured topic
func NewQueueMessageConsumer() (*QueueMessageConsumer, error) {
	consumer, err := sarama.NewConsumer([]string{brokerList}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	return &QueueMessageConsumer{
		consumer: consumer,
		topic:    topic,
	}, nil
}

// ConsumeTradeMessages reads trade messages from the topic and hands each to
// the handler. It blocks until the partition consumer is closed or the
// handler returns an error.
func (c *QueueMessageConsumer) ConsumeTradeMessages(handler func(*messaging.TradeMessage) error) error {
	partitionConsumer, err := c.consumer.ConsumePartition(c.topic, 0, sarama.OffsetNewest)
	if err != nil {
		return fmt.Errorf("failed to consume partition: %w", err)
	}
	defer partitionConsumer.Close()

	for msg := range partitionConsumer.Messages() {
		var tradeMsg messaging.TradeMessage
		if err := json.Unmarshal(msg.Value, &tradeMsg); err != nil {
			return fmt.Errorf("failed to unmarshal trade message: %w", err)
		}

		if err := handler(&tradeMsg); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the underlying consumer
func (c *QueueMessageConsumer) Close() error {
	return c.consumer.Close()
}
