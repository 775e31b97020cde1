// Package events carries the logout signal from the request layer to
// whoever tracks session state, without a process-global bus.
package events

import "sync"

// Reason says why a logout was published.
type Reason string

const (
	// ReasonExplicit is a user-requested logout.
	ReasonExplicit Reason = "explicit"
	// ReasonRefreshFailed means a 401 could not be recovered by refreshing.
	ReasonRefreshFailed Reason = "refresh_failed"
)

// Broadcaster delivers logout events to subscribers. Construct one per
// process and hand the same pointer to every component that needs it.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(Reason)
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Broadcaster) Subscribe(fn func(Reason)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every current subscriber once, in subscription order, on the
// caller's goroutine. Subscribers may subscribe or unsubscribe from within fn.
func (b *Broadcaster) Publish(reason Reason) {
	if b == nil {
		return
	}

	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(reason)
	}
}

// Len returns the number of current subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
