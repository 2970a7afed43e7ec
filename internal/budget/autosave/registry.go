package autosave

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var ErrFormNotFound = errors.New("form not found")

// Registry tracks open forms by id for clients that edit over several
// requests.
type Registry struct {
	saver Saver
	cfg   Config

	mu    sync.RWMutex
	forms map[uuid.UUID]*entry
}

type entry struct {
	form *Form
	seen time.Time
}

func NewRegistry(saver Saver, cfg Config) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	return &Registry{
		saver: saver,
		cfg:   cfg,
		forms: make(map[uuid.UUID]*entry),
	}
}

// Open creates a form with the registry's configuration.
func (r *Registry) Open() *Form {
	f := New(r.saver, r.cfg)

	r.mu.Lock()
	r.forms[f.ID()] = &entry{form: f, seen: r.cfg.Clock.Now()}
	r.mu.Unlock()

	return f
}

// Get returns the form and marks it as used.
func (r *Registry) Get(id uuid.UUID) (*Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}

	e.seen = r.cfg.Clock.Now()

	return e.form, nil
}

// Close closes the form and forgets it. A save in flight still completes.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	e, ok := r.forms[id]
	delete(r.forms, id)
	r.mu.Unlock()

	if !ok {
		return ErrFormNotFound
	}

	e.form.Close()

	return nil
}

// CloseAll closes every open form.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	forms := r.forms
	r.forms = make(map[uuid.UUID]*entry)
	r.mu.Unlock()

	for _, e := range forms {
		e.form.Close()
	}
}

// Sweep closes forms not used for idle or longer. Forms with a save pending
// or running are kept until they settle. It reports how many were closed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.cfg.Clock.Now().Add(-idle)

	var stale []*Form

	r.mu.Lock()
	for id, e := range r.forms {
		if e.seen.After(cutoff) || e.form.State() != StateIdle {
			continue
		}

		stale = append(stale, e.form)
		delete(r.forms, id)
	}
	r.mu.Unlock()

	for _, f := range stale {
		f.Close()
	}

	if len(stale) > 0 {
		slog.Info("closed idle budget drafts", "count", len(stale), "idle", idle)
	}

	return len(stale)
}

// Run sweeps idle forms every idle period until ctx is done.
func (r *Registry) Run(ctx context.Context, idle time.Duration) {
	ticker := r.cfg.Clock.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.Sweep(idle)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.forms)
}
