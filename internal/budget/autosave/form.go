// Package autosave coalesces rapid edits of a budget form into a single save
// once the user stops typing.
package autosave

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

const DefaultInterval = 500 * time.Millisecond

type State int

const (
	StateIdle State = iota
	StatePending
	StateValidating
	StateSaving
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidating:
		return "validating"
	case StateSaving:
		return "saving"
	default:
		return "idle"
	}
}

// Fields are the raw values of the form as the user typed them.
type Fields struct {
	Category string
	Limit    string
}

func (f Fields) empty() bool {
	return strings.TrimSpace(f.Category) == "" && strings.TrimSpace(f.Limit) == ""
}

// Saver persists a validated form. budget.Service satisfies it.
type Saver interface {
	Upsert(ctx context.Context, params budget.UpsertParams) (*budget.Budget, error)
}

type Config struct {
	Interval time.Duration // Quiet period before saving; DefaultInterval when zero
	Timeout  time.Duration // Per-save deadline; none when zero
	Clock    clockwork.Clock

	OnSaved   func(*budget.Budget)
	OnError   func(error)
	OnSkipped func(*ValidationError)
}

// Snapshot is a point-in-time copy of a form's state.
type Snapshot struct {
	ID        uuid.UUID
	State     State
	Fields    Fields
	LastSaved *budget.Budget
	LastError error
	Invalid   *ValidationError
	Saves     int
}

type Form struct {
	id    uuid.UUID
	saver Saver
	cfg   Config

	mu        sync.Mutex
	state     State
	fields    Fields
	timer     clockwork.Timer
	gen       uint64
	dirty     bool
	closed    bool
	lastSaved *budget.Budget
	lastErr   error
	invalid   *ValidationError
	saves     int
}

func New(saver Saver, cfg Config) *Form {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	return &Form{
		id:    uuid.New(),
		saver: saver,
		cfg:   cfg,
	}
}

func (f *Form) ID() uuid.UUID { return f.id }

// SetCategory switches the category. Any save pending for the previous
// category is dropped.
func (f *Form) SetCategory(name string) {
	f.edit(func(fields *Fields) { fields.Category = name })
}

func (f *Form) SetLimit(raw string) {
	f.edit(func(fields *Fields) { fields.Limit = raw })
}

// Edit replaces both fields at once.
func (f *Form) Edit(fields Fields) {
	f.edit(func(cur *Fields) { *cur = fields })
}

func (f *Form) edit(apply func(*Fields)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	apply(&f.fields)

	if f.state == StateSaving {
		f.dirty = true
		return
	}

	f.arm()
}

// arm restarts the quiet period. Callers hold f.mu.
func (f *Form) arm() {
	f.stop()

	if f.fields.empty() {
		f.state = StateIdle
		return
	}

	f.state = StatePending
	gen := f.gen
	f.timer = f.cfg.Clock.AfterFunc(f.cfg.Interval, func() { f.fire(gen) })
}

// stop cancels the pending timer and invalidates any fire already queued.
// Callers hold f.mu.
func (f *Form) stop() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}

	f.gen++
}

// Reset loads fields without scheduling a save, e.g. when opening an
// existing budget for editing.
func (f *Form) Reset(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.stop()
	f.fields = fields
	f.dirty = false
	f.invalid = nil

	if f.state == StatePending {
		f.state = StateIdle
	}
}

// Cancel drops a pending save without running it. A save in flight is not
// interrupted but will not be followed by another.
func (f *Form) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.stop()
	f.dirty = false

	if f.state == StatePending {
		f.state = StateIdle
	}
}

// Close cancels pending work and ignores every later edit.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()

	f.Cancel()
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		ID:        f.id,
		State:     f.state,
		Fields:    f.fields,
		LastSaved: f.lastSaved,
		LastError: f.lastErr,
		Invalid:   f.invalid,
		Saves:     f.saves,
	}
}

func (f *Form) fire(gen uint64) {
	f.mu.Lock()

	if f.closed || gen != f.gen || f.state != StatePending {
		f.mu.Unlock()
		return
	}

	f.timer = nil
	f.state = StateValidating

	params, err := validate(f.fields, period.Current(f.cfg.Clock.Now()))
	if err != nil {
		var verr *ValidationError
		errors.As(err, &verr)

		f.invalid = verr
		f.state = StateIdle
		f.mu.Unlock()

		slog.Debug("autosave skipped", "form", f.id, "reason", err.Error())

		if f.cfg.OnSkipped != nil {
			f.cfg.OnSkipped(verr)
		}

		return
	}

	f.invalid = nil
	f.state = StateSaving
	f.dirty = false
	f.mu.Unlock()

	b, err := f.save(params)

	f.mu.Lock()

	f.saves++
	f.state = StateIdle

	if err != nil {
		f.lastErr = err
	} else {
		f.lastSaved = b
		f.lastErr = nil
	}

	if f.dirty && !f.closed {
		f.dirty = false
		f.arm()
	}

	f.mu.Unlock()

	if err != nil {
		slog.Error("failed to autosave budget", "form", f.id, "category", params.CategoryName, "error", err)

		if f.cfg.OnError != nil {
			f.cfg.OnError(err)
		}

		return
	}

	if f.cfg.OnSaved != nil {
		f.cfg.OnSaved(b)
	}
}

func (f *Form) save(params budget.UpsertParams) (*budget.Budget, error) {
	ctx := context.Background()

	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	return f.saver.Upsert(ctx, params)
}
