package flow

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned to a load that was superseded before it finished.
var ErrStale = errors.New("flow: load superseded")

// FetchFunc loads the data for one step key.
type FetchFunc[K comparable, T any] func(ctx context.Context, key K) (T, error)

// LoadState is what a step shows: the key it is for and the outcome of the
// most recent load of that key.
type LoadState[K comparable, T any] struct {
	Key     K
	Loading bool
	Loaded  bool
	Value   T
	Err     error
}

// Loader runs one step's fetch with last-request-wins semantics. Starting a
// load cancels the one in flight, and a result that arrives after a newer
// load started is discarded.
type Loader[K comparable, T any] struct {
	fetch FetchFunc[K, T]

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  LoadState[K, T]
}

func NewLoader[K comparable, T any](fetch FetchFunc[K, T]) *Loader[K, T] {
	return &Loader[K, T]{fetch: fetch}
}

// Load fetches key and blocks until it finishes or is superseded.
func (l *Loader[K, T]) Load(ctx context.Context, key K) (T, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = LoadState[K, T]{Key: key, Loading: true}
	l.mu.Unlock()

	value, err := l.fetch(ctx, key)

	l.mu.Lock()
	defer l.mu.Unlock()
	cancel()
	if gen != l.gen {
		var zero T
		return zero, ErrStale
	}
	l.cancel = nil
	l.state = LoadState[K, T]{Key: key, Loaded: err == nil, Value: value, Err: err}
	return value, err
}

func (l *Loader[K, T]) State() LoadState[K, T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Close abandons the load in flight. Its result becomes stale.
func (l *Loader[K, T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.state.Loading = false
}
