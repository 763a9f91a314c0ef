package queue

import (
	"sync"

	"github.com/IBM/sarama"
)

// stubSyncProducer fakes the producer behind the newSyncProducer seam. The
// embedded interface satisfies sarama.SyncProducer; only the methods the
// sender path calls are implemented, anything else panics on use.
type stubSyncProducer struct {
	sarama.SyncProducer

	mu      sync.Mutex
	sent    []*sarama.ProducerMessage
	sendErr error
	closed  bool
}

func (p *stubSyncProducer) SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sendErr != nil {
		return 0, 0, p.sendErr
	}

	p.sent = append(p.sent, msg)
	return 0, 0, nil
}

func (p *stubSyncProducer) SendMessages(msgs []*sarama.ProducerMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sendErr != nil {
		return p.sendErr
	}

	p.sent = append(p.sent, msgs...)
	return nil
}

func (p *stubSyncProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *stubSyncProducer) sentMessages() []*sarama.ProducerMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*sarama.ProducerMessage, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *stubSyncProducer) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
