package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// subscription is one registered callback. delivered is the sequence number
// of the last snapshot handed to fn; mu serializes deliveries so fn never
// sees an older snapshot after a newer one.
type subscription struct {
	fn        func(*Response)
	mu        sync.Mutex
	delivered uint64
}

// observers is an insertion-ordered set of subscriptions keyed by an opaque
// handle. It is not safe for concurrent use; the poller guards it.
type observers struct {
	order []uuid.UUID
	fns   map[uuid.UUID]*subscription
}

func newObservers() observers {
	return observers{fns: make(map[uuid.UUID]*subscription)}
}

func (o *observers) add(fn func(*Response)) (uuid.UUID, *subscription) {
	id := uuid.New()
	sub := &subscription{fn: fn}
	o.order = append(o.order, id)
	o.fns[id] = sub
	return id, sub
}

// remove reports whether id was still registered.
func (o *observers) remove(id uuid.UUID) bool {
	if _, ok := o.fns[id]; !ok {
		return false
	}
	delete(o.fns, id)
	for i, existing := range o.order {
		if existing == id {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns the subscriptions in registration order. Callers iterate
// the copy so callbacks may subscribe or unsubscribe while being notified.
func (o *observers) snapshot() []*subscription {
	subs := make([]*subscription, 0, len(o.order))
	for _, id := range o.order {
		subs = append(subs, o.fns[id])
	}
	return subs
}

func (o *observers) len() int {
	return len(o.order)
}
