// Package notify holds the engine's observable state: each Channel keeps the
// latest published value and replays it to new subscribers.
package notify

import (
	"context"
	"sync"
)

// Channel is a latest-value broadcast channel.
type Channel[T any] struct {
	mu      sync.RWMutex
	value   T
	nextID  int
	subs    map[int]func(T)
	deliver sync.Mutex
}

// NewChannel returns a channel whose current value is initial.
func NewChannel[T any](initial T) *Channel[T] {
	return &Channel[T]{value: initial, subs: make(map[int]func(T))}
}

// Publish stores v as the latest value and delivers it to every subscriber.
// Deliveries are serialized so subscribers observe values in publish order.
func (c *Channel[T]) Publish(v T) {
	c.deliver.Lock()
	defer c.deliver.Unlock()

	c.mu.Lock()
	c.value = v
	fns := make([]func(T), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Value returns the latest published value.
func (c *Channel[T]) Value() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Subscribe registers fn and immediately calls it with the latest value.
// fn runs on the publisher's goroutine and must not call Publish on the same
// channel. The returned func removes the subscription.
func (c *Channel[T]) Subscribe(fn func(T)) (cancel func()) {
	c.deliver.Lock()
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	current := c.value
	c.mu.Unlock()
	fn(current)
	c.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Watch returns a channel carrying the latest value, then every later one.
// A slow reader only ever sees the most recent value. The channel is closed
// when ctx is done.
func (c *Channel[T]) Watch(ctx context.Context) <-chan T {
	out := make(chan T, 1)
	var mu sync.Mutex
	closed := false

	push := func(v T) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case <-out:
		default:
		}
		out <- v
	}
	cancel := c.Subscribe(push)

	go func() {
		<-ctx.Done()
		cancel()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()
	}()
	return out
}

// Subscribers reports the number of live subscriptions.
func (c *Channel[T]) Subscribers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs)
}
