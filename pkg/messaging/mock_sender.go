package messaging

import (
	"context"
	"sync"
)

// MockMessageSender is an in-memory implementation of MessageSender for
// testing. It records every message it is handed.
type MockMessageSender struct {
	mu       sync.Mutex
	messages []*TradeMessage
}

// NewMockMessageSender creates a new MockMessageSender.
func NewMockMessageSender() *MockMessageSender {
	return &MockMessageSender{}
}

// SendTradeMessage records the message.
func (m *MockMessageSender) SendTradeMessage(ctx context.Context, msg *TradeMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (m *MockMessageSender) Messages() []*TradeMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*TradeMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Close does nothing.
func (m *MockMessageSender) Close() error {
	return nil
}

// Ensure MockMessageSender implements MessageSender
var _ MessageSender = (*MockMessageSender)(nil)
