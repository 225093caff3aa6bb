package session

import (
	"sync"
	"time"
)

type (
	// Broker carries messages from worker goroutines (decoders, capture
	// devices, MIDI listeners) to the control goroutine that owns the
	// session. Messages are either func(), which is executed on the control
	// goroutine, or Alert, which is added to the alerts.
	//
	// The control goroutine drains ToSession and hands each message to
	// Session.ProcessMsg. After Close, posted messages are dropped.
	Broker struct {
		ToSession chan any

		closeOnce sync.Once
		closed    chan struct{}
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToSession: make(chan any, 1024),
		closed:    make(chan struct{}),
	}
}

// Post sends msg to the control goroutine, blocking until there is room in
// the channel or the broker is closed.
func (b *Broker) Post(msg any) {
	select {
	case b.ToSession <- msg:
	case <-b.closed:
	}
}

// Close makes all pending and future Posts return without delivering.
func (b *Broker) Close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
