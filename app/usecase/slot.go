package usecase

import (
	"context"
	"sync/atomic"
)

// Slot memoizes a single computed value until it is invalidated.
//
// Slot is eventually consistent and gives no atomicity between a write and a
// concurrently in-flight read. The value is published atomically, so readers
// never observe a torn value, but nothing serializes a fetch against
// Invalidate: a fetch that started before Invalidate may store its stale
// result after it, and concurrent misses may each run the fetch. Callers that
// need read-your-writes across goroutines must order those calls themselves.
//
// The zero value is an empty slot.
type Slot[T any] struct {
	value atomic.Pointer[T]
}

func (s *Slot[T]) Load() (T, bool) {
	p := s.value.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func (s *Slot[T]) Store(v T) {
	s.value.Store(&v)
}

func (s *Slot[T]) Invalidate() {
	s.value.Store(nil)
}

// Get returns the memoized value, running fetch on a miss. A failed fetch
// leaves the slot empty.
func (s *Slot[T]) Get(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Load(); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.Store(v)
	return v, nil
}
