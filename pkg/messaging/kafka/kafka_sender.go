package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/erain9/matchbook/pkg/messaging"
)

// KafkaMessageSender implements MessageSender using the kafka-go writer.
// It is an alternative to the sarama-based sender in pkg/db/queue for
// deployments that prefer batched async writes.
type KafkaMessageSender struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaMessageSender creates a new Kafka message sender
func NewKafkaMessageSender(brokerAddr, topic string) (*KafkaMessageSender, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaMessageSender{
		writer: writer,
		topic:  topic,
	}, nil
}

// SendTradeMessage sends a trade message to Kafka
func (k *KafkaMessageSender) SendTradeMessage(ctx context.Context, msg *messaging.TradeMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal trade message: %w", err)
	}

	kafkaMsg := kafka.Message{
		Key:   []byte(msg.Security),
		Value: data,
		Time:  time.Now(),
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(writeCtx, kafkaMsg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka writer
func (k *KafkaMessageSender) Close() error {
	return k.writer.Close()
}

var _ messaging.MessageSender = (*KafkaMessageSender)(nil)
