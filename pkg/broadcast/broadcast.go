package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel messages arrive on. The context is
	// accepted for interface consistency with adapters that block; the
	// in-memory implementation does not use it.
	Receive(ctx context.Context) <-chan Message[T]

	// Close closes the subscriber and its receive channel.
	// Close is idempotent.
	Close() error
}

// Broadcaster fans messages out to its subscribers. Implementations must
// handle slow consumers by dropping messages, never by blocking the
// broadcast.
type Broadcaster[T any] interface {
	// Subscribe registers a new subscriber. Cancelling the context cleans
	// the subscription up.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast sends a message to every active subscriber.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close shuts the broadcaster down and closes all subscribers.
	Close() error
}

type subscriber[T any] struct {
	ch     chan Message[T]
	closed bool
	mu     sync.RWMutex
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{ch: make(chan Message[T], bufferSize)}
}

func (s *subscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send delivers without blocking; a full buffer means the message is
// dropped for this subscriber.
func (s *subscriber[T]) send(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
