package cache

import (
	"sync"

	"github.com/wippyai/teajs/errors"
)

// Mapper computes the value for a key. Implementations should be free of
// side effects; the result is shared by every caller.
type Mapper[K comparable, V any] interface {
	Map(key K) (V, error)
}

// MapperFunc adapts a function to Mapper.
type MapperFunc[K comparable, V any] func(key K) (V, error)

// Map implements Mapper.
func (f MapperFunc[K, V]) Map(key K) (V, error) {
	return f(key)
}

// KeyListener is notified when a key's value is first published.
type KeyListener[K comparable] interface {
	KeyAdded(key K)
}

// KeyListenerFunc adapts a function to KeyListener.
type KeyListenerFunc[K comparable] func(key K)

// KeyAdded implements KeyListener.
func (f KeyListenerFunc[K]) KeyAdded(key K) {
	f(key)
}

type entry[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Concurrent memoizes an inner Mapper so that at most one computation per
// key is in flight at any time and every caller for a key receives the same
// value.
//
// The first caller for a key runs the inner mapper on its own goroutine,
// publishes the result, runs the key listeners and only then releases the
// callers blocked on that key. A failed computation is not cached: callers
// already waiting receive the same error and the next caller computes again.
// Listeners never see failed keys.
type Concurrent[K comparable, V any] struct {
	inner     Mapper[K, V]
	entries   sync.Map // K -> *entry[V]
	mu        sync.RWMutex
	listeners []KeyListener[K]
}

// New wraps inner.
func New[K comparable, V any](inner Mapper[K, V]) *Concurrent[K, V] {
	return &Concurrent[K, V]{inner: inner}
}

// Map returns the value for key, computing it if no caller has yet done so.
func (c *Concurrent[K, V]) Map(key K) (V, error) {
	if v, ok := c.entries.Load(key); ok {
		return c.wait(v.(*entry[V]))
	}

	e := &entry[V]{done: make(chan struct{})}
	if existing, loaded := c.entries.LoadOrStore(key, e); loaded {
		return c.wait(existing.(*entry[V]))
	}

	e.value, e.err = c.compute(key)
	if e.err != nil {
		c.entries.CompareAndDelete(key, e)
	} else {
		c.mu.RLock()
		listeners := c.listeners
		c.mu.RUnlock()
		for _, l := range listeners {
			l.KeyAdded(key)
		}
	}
	close(e.done)
	return e.value, e.err
}

func (c *Concurrent[K, V]) compute(key K) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.PhaseCache, errors.KindComputation).
				Detail("computation panicked: %v", r).
				Value(key).
				Build()
		}
	}()
	value, err = c.inner.Map(key)
	if err != nil {
		err = errors.New(errors.PhaseCache, errors.KindComputation).
			Detail("computation failed").
			Value(key).
			Cause(err).
			Build()
	}
	return value, err
}

func (c *Concurrent[K, V]) wait(e *entry[V]) (V, error) {
	<-e.done
	return e.value, e.err
}

// Caches reports whether a value for key has been published.
func (c *Concurrent[K, V]) Caches(key K) bool {
	v, ok := c.entries.Load(key)
	return ok && published(v.(*entry[V]))
}

// CachedKeys returns the keys whose values have been published, in no
// particular order. Computations in flight are not included.
func (c *Concurrent[K, V]) CachedKeys() []K {
	var keys []K
	c.entries.Range(func(k, v any) bool {
		if published(v.(*entry[V])) {
			keys = append(keys, k.(K))
		}
		return true
	})
	return keys
}

// AddKeyListener registers l for keys published after the call.
func (c *Concurrent[K, V]) AddKeyListener(l KeyListener[K]) {
	c.mu.Lock()
	c.listeners = append(c.listeners[:len(c.listeners):len(c.listeners)], l)
	c.mu.Unlock()
}

func published[V any](e *entry[V]) bool {
	select {
	case <-e.done:
		return e.err == nil
	default:
		return false
	}
}
