package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/erain9/matchbook/pkg/messaging"
)

var (
	senderPool   chan messaging.MessageSender
	poolInitOnce sync.Once
	maxPoolSize  = 32
)

func initSenderPool() {
	poolInitOnce.Do(func() {
		senderPool = make(chan messaging.MessageSender, maxPoolSize)
		for i := 0; i < maxPoolSize; i++ {
			sender, err := NewQueueMessageSender()
			if err != nil {
				log.Error().Err(err).Msg("Failed to create pooled sender")
				continue
			}
			senderPool <- sender
		}
	})
}

// GetSender gets a sender from the pool
func GetSender() messaging.MessageSender {
	initSenderPool()

	select {
	case sender := <-senderPool:
		return sender
	default:
		log.Warn().Msg("Sender pool is empty")
		return nil
	}
}

// ReturnSender returns a sender to the pool
func ReturnSender(sender messaging.MessageSender) {
	if sender == nil {
		return
	}

	select {
	case senderPool <- sender:
	default:
		log.Warn().Msg("Sender pool is full, closing sender")
		_ = sender.Close()
	}
}

// SendMessage sends a trade message using a pooled sender
func SendMessage(ctx context.Context, msg *messaging.TradeMessage) error {
	sender := GetSender()
	if sender == nil {
		return fmt.Errorf("failed to get message sender from pool")
	}
	defer func() { ReturnSender(sender) }()

	if err := sender.SendTradeMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("security", msg.Security).Msg("Failed to send trade message")
		// Do not return a sender with a broken connection to the pool
		_ = sender.Close()
		sender = nil
		return err
	}

	return nil
}
