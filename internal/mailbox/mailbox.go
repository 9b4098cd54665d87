// Package mailbox carries outcomes from a worker goroutine to the controller
// goroutine. Posting never blocks; delivery is FIFO, one message per Next
// call; after Close everything queued or posted later is discarded.
package mailbox

import (
	"context"
	"errors"
	"sync"

	"github.com/veranemoloko/tinyshare/internal/domain"
	"github.com/veranemoloko/tinyshare/internal/metrics"
)

// ErrClosed is returned by Next once the mailbox has been closed.
var ErrClosed = errors.New("mailbox closed")

// Mailbox is an unbounded single-producer, single-consumer queue of messages.
type Mailbox struct {
	mu      sync.Mutex
	queue   []domain.Message
	seq     uint64
	closed  bool
	dropped int
	notify  chan struct{}
}

// New creates an open, empty mailbox.
func New() *Mailbox {
	return &Mailbox{
		notify: make(chan struct{}, 1),
	}
}

// Post enqueues the outcome for the controller. It returns false when the
// mailbox is closed and the outcome was dropped.
func (m *Mailbox) Post(o domain.Outcome) bool {
	m.mu.Lock()
	if m.closed {
		m.dropped++
		m.mu.Unlock()
		metrics.MessagesDropped.Inc()
		return false
	}

	m.seq++
	msg := domain.NewMessage(o)
	msg.Seq = m.seq
	m.queue = append(m.queue, msg)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
	return true
}

// Next returns the oldest queued message, waiting for one if needed.
func (m *Mailbox) Next(ctx context.Context) (domain.Message, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return domain.Message{}, ErrClosed
		}
		if len(m.queue) > 0 {
			msg := m.queue[0]
			m.queue[0] = domain.Message{}
			m.queue = m.queue[1:]
			m.mu.Unlock()
			return msg, nil
		}
		m.mu.Unlock()

		select {
		case <-m.notify:
		case <-ctx.Done():
			return domain.Message{}, ctx.Err()
		}
	}
}

// Close discards pending messages and makes every later Post a no-op.
// It is safe to call more than once.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true

	if n := len(m.queue); n > 0 {
		m.dropped += n
		metrics.MessagesDropped.Add(float64(n))
	}
	m.queue = nil

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Pending returns the number of undelivered messages.
func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Dropped returns how many messages were discarded because of Close.
func (m *Mailbox) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
