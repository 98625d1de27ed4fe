// Package notify provides per-store change subscriptions.
package notify

import "sync"

// Listener is called after a store's data changed.
type Listener func()

type subscription struct {
	owner string
	fn    Listener
}

// Registry holds the listeners of one store. The zero value is ready to use.
//
// A listener may be scoped to an owner, in which case it only hears about
// that owner's writes and about writes whose owner is unknown.
type Registry struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]subscription
	order     []uint64
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Subscribe registers fn for every owner's changes and returns a function
// that removes it. Calling the returned function more than once is harmless.
func (r *Registry) Subscribe(fn Listener) (unsubscribe func()) {
	return r.SubscribeOwner("", fn)
}

// SubscribeOwner registers fn for the changes of owner. An empty owner
// subscribes to everything.
func (r *Registry) SubscribeOwner(owner string, fn Listener) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	if r.listeners == nil {
		r.listeners = make(map[uint64]subscription)
	}
	r.nextID++
	id := r.nextID
	r.listeners[id] = subscription{owner: owner, fn: fn}
	r.order = append(r.order, id)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.listeners, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Notify calls every listener; use it when the owner of a change is not
// known.
func (r *Registry) Notify() {
	r.NotifyOwner("")
}

// NotifyOwner calls, in subscription order and on the caller's goroutine,
// the listeners interested in a change made by owner. Listeners may
// subscribe or unsubscribe while being notified; such changes apply from the
// next call.
func (r *Registry) NotifyOwner(owner string) {
	for _, fn := range r.snapshot(owner) {
		fn()
	}
}

// Len returns the number of listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *Registry) snapshot(owner string) []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()

	fns := make([]Listener, 0, len(r.order))
	for _, id := range r.order {
		sub := r.listeners[id]
		if owner == "" || sub.owner == "" || sub.owner == owner {
			fns = append(fns, sub.fn)
		}
	}
	return fns
}
