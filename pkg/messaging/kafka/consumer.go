package kafka

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/erain9/matchbook/pkg/db/queue"
	"github.com/erain9/matchbook/pkg/messaging"
)

// SetupConsumer initializes and starts the Kafka consumer for logging
// published trades
func SetupConsumer(ctx context.Context, logger zerolog.Logger) (*queue.QueueMessageConsumer, error) {
	kafkaConsumer, err := queue.NewQueueMessageConsumer()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create Kafka consumer - continuing without Kafka support")
		return nil, err
	}

	go func() {
		logger.Info().Msg("Starting Kafka consumer")
		err := kafkaConsumer.ConsumeTradeMessages(func(msg *messaging.TradeMessage) error {
			logger.Info().
				Str("security", msg.Security).
				Int("trade_count", len(msg.Trades)).
				Interface("trades", msg.Trades).
				Msg("Received trade message")
			return nil
		})
		if err != nil {
			logger.Error().Err(err).Msg("Kafka consumer error")
		}
	}()

	return kafkaConsumer, nil
}
