package model

import "sync"

// lazy holds a relationship computed on first access.
//
// Concurrent first accesses may each run load; only the first successful result is stored and
// every caller returns the stored value. A failed load leaves the cell empty.
type lazy[T any] struct {
	mu     sync.Mutex
	loaded bool
	value  T
}

func (l *lazy[T]) get(load func() (T, error)) (T, error) {
	l.mu.Lock()
	if l.loaded {
		v := l.value
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.loaded {
		l.value = v
		l.loaded = true
	}
	return l.value, nil
}

func (l *lazy[T]) peek() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.loaded
}
