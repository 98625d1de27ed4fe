package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_NotifyCallsListenersInOrder(t *testing.T) {
	r := NewRegistry()
	var calls []string

	r.Subscribe(func() { calls = append(calls, "first") })
	r.Subscribe(func() { calls = append(calls, "second") })

	r.Notify()

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestRegistry_Unsubscribe(t *testing.T) {
	r := NewRegistry()
	count := 0

	unsubscribe := r.Subscribe(func() { count++ })
	r.Notify()
	unsubscribe()
	r.Notify()

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_UnsubscribeTwiceIsHarmless(t *testing.T) {
	r := NewRegistry()
	other := 0

	unsubscribe := r.Subscribe(func() {})
	r.Subscribe(func() { other++ })

	unsubscribe()
	unsubscribe()
	r.Notify()

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, other)
}

func TestRegistry_NilListener(t *testing.T) {
	r := NewRegistry()

	unsubscribe := r.Subscribe(nil)
	unsubscribe()

	assert.Equal(t, 0, r.Len())
	assert.NotPanics(t, r.Notify)
}

func TestRegistry_ListenerMayUnsubscribeDuringNotify(t *testing.T) {
	r := NewRegistry()
	count := 0

	var unsubscribe func()
	unsubscribe = r.Subscribe(func() {
		count++
		unsubscribe()
	})

	r.Notify()
	r.Notify()

	assert.Equal(t, 1, count)
}

func TestRegistry_ZeroValue(t *testing.T) {
	var r Registry
	called := false

	r.Subscribe(func() { called = true })
	r.Notify()

	assert.True(t, called)
}

func TestRegistry_ConcurrentUse(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unsubscribe := r.Subscribe(func() {})
			unsubscribe()
		}()
		go func() {
			defer wg.Done()
			r.Notify()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Len())
}

func TestRegistry_NotifyOwner(t *testing.T) {
	tests := []struct {
		name     string
		notify   func(r *Registry)
		expected []string
	}{
		{name: "owner change", notify: func(r *Registry) { r.NotifyOwner("u1") }, expected: []string{"all", "u1"}},
		{name: "other owner change", notify: func(r *Registry) { r.NotifyOwner("u2") }, expected: []string{"all"}},
		{name: "unknown owner", notify: func(r *Registry) { r.Notify() }, expected: []string{"all", "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			var calls []string
			r.Subscribe(func() { calls = append(calls, "all") })
			r.SubscribeOwner("u1", func() { calls = append(calls, "u1") })

			tt.notify(r)

			assert.Equal(t, tt.expected, calls)
		})
	}
}
