// Package memory is an in-process record store for categories, transactions
// and budgets. It backs STORE=memory and the tests of the services on top of
// it. Records are copied in and out so callers never share state with it.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var (
	_ category.Repository    = (*Store)(nil)
	_ transaction.Repository = (*Store)(nil)
	_ budget.Repository      = (*Store)(nil)
)

type Store struct {
	mu sync.RWMutex

	categories   map[int64]*category.Category
	transactions map[int64]*transaction.Transaction
	budgets      map[int64]*budget.Budget
	nextID       int64

	latency time.Duration
	now     func() time.Time

	faultMu sync.Mutex
	faults  map[string]error
	calls   map[string]int
}

type Option func(*Store)

// WithLatency delays every call by d, giving concurrent callers room to
// interleave the way they would against a remote store.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithClock sets the source of CreatedAt and UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		categories:   make(map[int64]*category.Category),
		transactions: make(map[int64]*transaction.Transaction),
		budgets:      make(map[int64]*budget.Budget),
		now:          time.Now,
		faults:       make(map[string]error),
		calls:        make(map[string]int),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FailNext makes the next call of method return err instead of running.
func (s *Store) FailNext(method string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()

	s.faults[method] = err
}

// Calls reports how many times method has been invoked, failed calls included.
func (s *Store) Calls(method string) int {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()

	return s.calls[method]
}

// enter records the call, applies latency and returns an injected fault.
func (s *Store) enter(ctx context.Context, method string) error {
	s.faultMu.Lock()
	s.calls[method]++
	err := s.faults[method]
	delete(s.faults, method)
	s.faultMu.Unlock()

	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		defer t.Stop()

		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}
