package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/notify"
	"github.com/alexanderramin/formdraft/internal/repository"
)

// Engine owns the in-memory registry list and current draft that every
// service operates on. Storage is written through on each mutation; a
// storage failure is logged and the in-memory state stays authoritative for
// the rest of the session.
type Engine struct {
	mu sync.Mutex

	submissions repository.SubmissionRepo
	slot        repository.DraftSlotRepo
	bus         *notify.Bus
	log         *zap.Logger
	observer    UseCaseObserver
	now         func() time.Time
	newID       func() string

	list  []domain.Record
	draft *domain.Record
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// WithObserver sets the use-case observer.
func WithObserver(o UseCaseObserver) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides record id minting.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) { e.newID = gen }
}

// NewEngine loads the registry and draft slot, discards drafts without
// meaningful content, and publishes the initial state on bus.
func NewEngine(
	ctx context.Context,
	submissions repository.SubmissionRepo,
	slot repository.DraftSlotRepo,
	bus *notify.Bus,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		submissions: submissions,
		slot:        slot,
		bus:         bus,
		log:         zap.NewNop(),
		observer:    NoopUseCaseObserver{},
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.bus == nil {
		e.bus = notify.NewBus()
	}

	u := e.begin(ctx, "load-state")
	defer u.end()
	u.loadState()
	return e
}

// Bus returns the bus the engine publishes on.
func (e *Engine) Bus() *notify.Bus { return e.bus }

// useCase is one serialized engine operation. It holds the engine lock from
// begin until end and records the first storage failure.
type useCase struct {
	e       *Engine
	ctx     context.Context
	name    string
	started time.Time
	fields  map[string]any
	err     error
}

func (e *Engine) begin(ctx context.Context, name string) *useCase {
	e.mu.Lock()
	return &useCase{
		e:       e,
		ctx:     ctx,
		name:    name,
		started: time.Now(),
		fields:  map[string]any{},
	}
}

func (u *useCase) end() {
	u.e.mu.Unlock()
	u.e.observer.ObserveUseCase(u.ctx, UseCaseEvent{
		Name:      u.name,
		StartedAt: u.started,
		Duration:  time.Since(u.started),
		Success:   u.err == nil,
		Err:       u.err,
		Fields:    u.fields,
	})
}

func (u *useCase) storageFailed(msg string, err error) {
	u.e.log.Warn(msg, zap.String("use_case", u.name), zap.Error(err))
	if u.err == nil {
		u.err = err
	}
}

func (u *useCase) loadState() {
	e := u.e

	list, err := e.submissions.Load(u.ctx)
	if err != nil {
		u.storageFailed("registry unreadable, starting empty", err)
		list = []domain.Record{}
	}
	kept := list[:0]
	for _, rec := range list {
		if rec.IsDraft() && !domain.IsMeaningful(rec.FormData) {
			continue
		}
		kept = append(kept, rec)
	}
	dirty := len(kept) != len(list)
	u.fields["drafts_discarded"] = len(list) - len(kept)
	e.list = kept

	draft, err := e.slot.Load(u.ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		u.storageFailed("draft slot unreadable, starting empty", err)
	case !domain.IsMeaningful(draft.FormData):
		u.clearSlot()
		u.fields["draft_discarded"] = true
	default:
		e.draft = &draft
		// A crash between the slot write and the registry write leaves the
		// registry without the draft, or with an older version of it.
		if !draft.ClonedCopy && !e.frozen(draft.ID) && !e.mirrors(draft) {
			e.upsert(draft)
			dirty = true
			u.fields["draft_remirrored"] = true
		}
	}

	if dirty {
		u.saveList()
	}
	u.fields["records"] = len(e.list)
	e.bus.PublishSubmissions(e.list)
	e.bus.PublishDraft(e.draft)
}

func (e *Engine) indexOf(id string) int {
	for i := range e.list {
		if e.list[i].ID == id {
			return i
		}
	}
	return -1
}

// mirrors reports whether the registry holds rec under its id with the same
// name and form data.
func (e *Engine) mirrors(rec domain.Record) bool {
	i := e.indexOf(rec.ID)
	if i < 0 {
		return false
	}
	r := e.list[i]
	return r.Name == rec.Name && domain.FormDataEqual(r.FormData, rec.FormData)
}

// frozen reports whether id belongs to a submitted or template record. Those
// are never overwritten by a draft.
func (e *Engine) frozen(id string) bool {
	i := e.indexOf(id)
	return i >= 0 && !e.list[i].IsDraft()
}

func (e *Engine) nowUTC() time.Time {
	return e.now().UTC()
}

// upsert replaces or appends rec without persisting. The stored timestamp
// never moves backwards for an existing id.
func (e *Engine) upsert(rec domain.Record) {
	rec = rec.Clone()
	if i := e.indexOf(rec.ID); i >= 0 {
		if rec.Timestamp.Before(e.list[i].Timestamp) {
			rec.Timestamp = e.list[i].Timestamp
		}
		e.list[i] = rec
		return
	}
	e.list = append(e.list, rec)
}

func (u *useCase) saveList() {
	if err := u.e.submissions.Save(u.ctx, u.e.list); err != nil {
		u.storageFailed("registry write failed", err)
	}
}

func (u *useCase) publishList() {
	u.saveList()
	u.e.bus.PublishSubmissions(u.e.list)
}

func (u *useCase) setDraft(rec domain.Record) {
	rec = rec.Clone()
	u.e.draft = &rec
	if err := u.e.slot.Save(u.ctx, rec); err != nil {
		u.storageFailed("draft slot write failed", err)
	}
	u.e.bus.PublishDraft(u.e.draft)
}

func (u *useCase) clearSlot() {
	u.e.draft = nil
	if err := u.e.slot.Clear(u.ctx); err != nil {
		u.storageFailed("draft slot clear failed", err)
	}
}

func (u *useCase) clearDraft() {
	u.clearSlot()
	u.e.bus.PublishDraft(nil)
}

func cloneList(list []domain.Record) []domain.Record {
	out := make([]domain.Record, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}
