// Package events fans program log lines and ledger activity out to the
// websocket clients watching the node.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer is how many messages a slow subscriber can fall behind
// before new messages are dropped for it.
const messageBuffer = 100

// Events maintains the set of subscribers keyed by a unique id, usually
// the trace id of the websocket request.
type Events struct {
	mu      sync.RWMutex
	subs    map[string]chan string
	dropped uint64
}

// New constructs an events value for subscribing and publishing.
func New() *Events {
	return &Events{
		subs: make(map[string]chan string),
	}
}

// Shutdown closes and removes every subscription.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subs {
		delete(evt.subs, id)
		close(ch)
	}
}

// Acquire returns the channel the subscriber with the id receives on. The
// same channel is returned if the id is already subscribed.
func (evt *Events) Acquire(id string) <-chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	if ch, exists := evt.subs[id]; exists {
		return ch
	}

	ch := make(chan string, messageBuffer)
	evt.subs[id] = ch

	return ch
}

// Release closes and removes the subscription for the id.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subs, id)
	close(ch)

	return nil
}

// Send delivers the message to every subscriber without blocking. A
// subscriber with a full buffer misses the message.
func (evt *Events) Send(s string) {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for _, ch := range evt.subs {
		select {
		case ch <- s:
		default:
			evt.dropped++
		}
	}
}

// Stats returns the number of subscribers and messages dropped so far.
func (evt *Events) Stats() (subscribers int, dropped uint64) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	return len(evt.subs), evt.dropped
}
