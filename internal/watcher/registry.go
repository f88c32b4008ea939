package watcher

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"logwatch/internal/logging"
	"logwatch/internal/metrics"
)

// Callback receives one decoded, trimmed line.
type Callback func(line string)

// Subscription is the token that identifies a registered callback. Callers
// keep the token returned by Subscribe (or passed to Register) and hand the
// same token to Unregister.
type Subscription struct {
	id uuid.UUID
	fn Callback
}

// NewSubscription wraps fn in a new token. A nil fn produces a subscription
// that ignores every line.
func NewSubscription(fn Callback) *Subscription {
	return &Subscription{id: uuid.New(), fn: fn}
}

// ID returns the unique identifier of the subscription.
func (s *Subscription) ID() string {
	if s == nil {
		return ""
	}
	return s.id.String()
}

type registry struct {
	mu   sync.Mutex
	subs []*Subscription
}

func (r *registry) add(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.subs {
		if existing == sub {
			return false
		}
	}
	r.subs = append(r.subs, sub)
	return true
}

func (r *registry) remove(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.subs {
		if existing == sub {
			// Copy-on-write so snapshots handed to notify stay intact.
			next := make([]*Subscription, 0, len(r.subs)-1)
			next = append(next, r.subs[:i]...)
			next = append(next, r.subs[i+1:]...)
			r.subs = next
			return true
		}
	}
	return false
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// snapshot returns the current members in registration order. The returned
// slice is never mutated afterwards.
func (r *registry) snapshot() []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[:len(r.subs):len(r.subs)]
}

// Register adds sub to the subscriber set. Registering the same token twice
// has no effect.
func (w *Watcher) Register(sub *Subscription) {
	if w.subs.add(sub) {
		metrics.Subscribers.WithLabelValues(w.path).Set(float64(w.subs.len()))
		w.logger.Debug("subscriber registered",
			logging.String(logging.FieldSubscriptionID, sub.ID()),
			logging.Int("subscribers", w.subs.len()),
		)
	}
}

// Unregister removes sub from the subscriber set. Unknown tokens are ignored.
func (w *Watcher) Unregister(sub *Subscription) {
	if w.subs.remove(sub) {
		metrics.Subscribers.WithLabelValues(w.path).Set(float64(w.subs.len()))
		w.logger.Debug("subscriber unregistered",
			logging.String(logging.FieldSubscriptionID, sub.ID()),
			logging.Int("subscribers", w.subs.len()),
		)
	}
}

// Subscribe registers fn under a new token and returns it.
func (w *Watcher) Subscribe(fn Callback) *Subscription {
	sub := NewSubscription(fn)
	w.Register(sub)
	return sub
}

// Subscribers reports the number of registered subscriptions.
func (w *Watcher) Subscribers() int {
	return w.subs.len()
}

// notify delivers line to every subscriber in the current snapshot. Callbacks
// run outside the registry lock so they may register or unregister freely.
func (w *Watcher) notify(line string) {
	metrics.LinesRead.WithLabelValues(w.path).Inc()
	for _, sub := range w.subs.snapshot() {
		w.deliver(sub, line)
	}
}

func (w *Watcher) deliver(sub *Subscription, line string) {
	if sub.fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			metrics.CallbackFailures.WithLabelValues(w.path).Inc()
			w.logger.Error("subscriber callback failed",
				logging.String(logging.FieldEventType, "callback_failed"),
				logging.String(logging.FieldSubscriptionID, sub.ID()),
				logging.Error(fmt.Errorf("panic: %v", r)),
			)
		}
	}()
	sub.fn(line)
}
