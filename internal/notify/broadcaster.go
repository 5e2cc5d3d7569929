// Package notify carries the session-created change signal between the
// write path and read-side consumers. Delivery is at-most-once per
// subscriber per publish; a slow subscriber drops signals instead of
// blocking the writer, and a monotonic change counter lets pollers catch
// up on whatever they missed.
package notify

import (
	"sync"
	"time"
)

// Event marks that the session set changed.
type Event struct {
	Seq uint64    `json:"seq"`
	At  time.Time `json:"at"`
}

// Broadcaster fans a change signal out to subscribers.
type Broadcaster struct {
	mu     sync.Mutex
	subs   []chan Event
	seq    uint64
	closed bool
}

// New creates a Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers a new observer channel.
func (b *Broadcaster) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	b.mu.Lock()
	if !b.closed {
		b.subs = append(b.subs, ch)
	} else {
		close(ch)
	}
	b.mu.Unlock()
	return ch
}

// Publish advances the change counter and signals every subscriber.
// Sends never block, so they stay under the mutex; sending after
// unlocking would race a concurrent Close closing the channels.
func (b *Broadcaster) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.seq++
	event := Event{Seq: b.seq, At: time.Now()}

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Seq returns the current change counter. Pollers compare it against the
// last value they saw.
func (b *Broadcaster) Seq() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Close closes all subscriber channels. Publish becomes a no-op.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
