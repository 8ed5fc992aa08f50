package events

import (
	"sync"
)

// DefaultBufferSize is the per-subscriber buffer used by Subscribe callers that
// don't have a better number.
const DefaultBufferSize = 16

// Broadcaster fans a stream of values out to any number of subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the value.
type Broadcaster[T any] struct {
	subscribers []chan T
	closed      bool
	mu          sync.RWMutex
}

// NewBroadcaster creates a new broadcaster
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{}
}

// Subscribe returns a channel receiving every value published from now on.
// The channel is closed when the broadcaster is closed. Subscribing to a closed
// broadcaster yields an already-closed channel.
func (b *Broadcaster[T]) Subscribe(bufferSize int) <-chan T {
	ch := make(chan T, bufferSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch
	}

	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish delivers value to all subscribers (non-blocking)
func (b *Broadcaster[T]) Publish(value T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- value:
		default:
		}
	}
}

// Unsubscribe removes a subscription and closes its channel
func (b *Broadcaster[T]) Unsubscribe(ch <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, subscriber := range b.subscribers {
		if subscriber == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(subscriber)
			return
		}
	}
}

// SubscriberCount returns the number of open subscriptions
func (b *Broadcaster[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels. Later publishes are dropped.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
