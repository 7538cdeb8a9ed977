// Package autocomplete drives the location search box: keystrokes are
// debounced, one suggestion fetch runs at a time, and a newer keystroke or a
// selection abandons whatever is pending.
package autocomplete

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

type State int

const (
	Idle State = iota
	Typing
	Debouncing
	Fetching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it once wrapped.
type AfterFunc func(d time.Duration, f func()) Timer

// SearchFunc fetches suggestions for a trimmed, non-empty query.
type SearchFunc func(ctx context.Context, query string) ([]model.Location, error)

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Snapshot struct {
	State       State
	Query       string
	Suggestions []model.Location
	Err         error
	Selected    *model.Location
}

type Option func(*Autocomplete)

// WithAfterFunc replaces the debounce timer source.
func WithAfterFunc(fn AfterFunc) Option {
	return func(a *Autocomplete) { a.afterFunc = fn }
}

// WithObserver is called on every state change with the lock held; it must
// not call back into the Autocomplete.
func WithObserver(fn func(from, to State)) Option {
	return func(a *Autocomplete) { a.observer = fn }
}

type Autocomplete struct {
	search    SearchFunc
	quiet     time.Duration
	afterFunc AfterFunc
	observer  func(from, to State)
	logger    *logger.Logger

	mu          sync.Mutex
	state       State
	gen         uint64
	query       string
	suggestions []model.Location
	err         error
	selected    *model.Location
	timer       Timer
	cancel      context.CancelFunc
	settled     chan struct{}
}

func New(search SearchFunc, quiet time.Duration, log *logger.Logger, opts ...Option) *Autocomplete {
	a := &Autocomplete{
		search:    search,
		quiet:     quiet,
		afterFunc: realAfterFunc,
		logger:    log,
		settled:   make(chan struct{}),
	}
	close(a.settled)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Type records a keystroke. Any pending timer or fetch is abandoned, and an
// empty query clears the suggestions without fetching.
func (a *Autocomplete) Type(query string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.abandonLocked()
	a.query = query
	a.selected = nil
	a.err = nil

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		a.suggestions = nil
		a.setStateLocked(Idle)
		return
	}

	a.setStateLocked(Typing)
	gen := a.gen
	a.setStateLocked(Debouncing)
	a.timer = a.afterFunc(a.quiet, func() { a.fire(gen, trimmed) })
}

// Select takes a suggestion and returns to Idle without fetching.
func (a *Autocomplete) Select(loc model.Location) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.abandonLocked()
	a.selected = &loc
	a.query = loc.Name
	a.suggestions = nil
	a.err = nil
	a.setStateLocked(Idle)
}

func (a *Autocomplete) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Wait blocks until the box is Idle again or ctx ends.
func (a *Autocomplete) Wait(ctx context.Context) (Snapshot, error) {
	for {
		a.mu.Lock()
		if a.state == Idle {
			snap := a.snapshotLocked()
			a.mu.Unlock()
			return snap, nil
		}
		settled := a.settled
		a.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return a.Snapshot(), ctx.Err()
		}
	}
}

// Close abandons pending work.
func (a *Autocomplete) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abandonLocked()
	a.setStateLocked(Idle)
}

func (a *Autocomplete) fire(gen uint64, query string) {
	a.mu.Lock()
	if gen != a.gen {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.setStateLocked(Fetching)
	a.mu.Unlock()

	suggestions, err := a.search(ctx, query)
	cancel()

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return
	}
	a.cancel = nil
	if err != nil {
		a.logger.Warn("Location suggestions failed", "query", query, "error", err)
		suggestions = nil
	}
	a.suggestions = suggestions
	a.err = err
	a.setStateLocked(Idle)
}

func (a *Autocomplete) abandonLocked() {
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Autocomplete) setStateLocked(to State) {
	from := a.state
	if from == to {
		return
	}
	a.state = to
	switch {
	case to == Idle:
		close(a.settled)
	case from == Idle:
		a.settled = make(chan struct{})
	}
	if a.observer != nil {
		a.observer(from, to)
	}
}

func (a *Autocomplete) snapshotLocked() Snapshot {
	return Snapshot{
		State:       a.state,
		Query:       a.query,
		Suggestions: append([]model.Location(nil), a.suggestions...),
		Err:         a.err,
		Selected:    a.selected,
	}
}
