// Package autosave debounces form change events into draft saves.
package autosave

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/notify"
)

// DefaultDebounce is the quiet period before a snapshot is evaluated.
const DefaultDebounce = time.Second

// Source is the hosted form as the scheduler sees it.
type Source interface {
	Subscribe(fn func(form.Event)) (cancel func())
	Values() domain.FormData
	Title() string
	Dirty() bool
	MarkClean()
	Suspend()
	Resume()
	ApplySilently(title string, data domain.FormData)
}

// DraftSaver persists snapshots. Satisfied by service.DraftService.
type DraftSaver interface {
	SaveDraft(ctx context.Context, data domain.FormData, name string) (domain.Record, bool)
	CurrentDraft(ctx context.Context) (domain.Record, bool)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.debounce = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// Scheduler saves the form's latest snapshot once no change has arrived for
// the debounce period. A newer event replaces a pending one.
type Scheduler struct {
	src      Source
	saver    DraftSaver
	debounce time.Duration
	log      *zap.Logger
	saving   *notify.Channel[bool]

	mu        sync.Mutex
	ctx       context.Context
	cancelSub func()
	timer     *time.Timer
	gen       uint64
	pending   bool
	suspended int

	evalMu sync.Mutex
}

// New creates a stopped scheduler.
func New(src Source, saver DraftSaver, opts ...Option) *Scheduler {
	s := &Scheduler{
		src:      src,
		saver:    saver,
		debounce: DefaultDebounce,
		log:      zap.NewNop(),
		saving:   notify.NewChannel(false),
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Saving is true while a save is running.
func (s *Scheduler) Saving() *notify.Channel[bool] { return s.saving }

// Start subscribes to the form. Saves run with ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelSub != nil {
		return
	}
	s.ctx = ctx
	s.cancelSub = s.src.Subscribe(s.onEvent)
}

// Stop unsubscribes and drops any pending snapshot. Call Flush first to keep it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelSub != nil {
		s.cancelSub()
		s.cancelSub = nil
	}
	s.dropPendingLocked()
}

// Suspend ignores events until the matching Resume and drops any pending
// snapshot.
func (s *Scheduler) Suspend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspended++
	s.dropPendingLocked()
}

func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended > 0 {
		s.suspended--
	}
}

// Pending reports whether a snapshot is waiting for the debounce to expire.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LoadInto applies rec to the form without triggering an autosave.
func (s *Scheduler) LoadInto(rec domain.Record) {
	s.Suspend()
	defer s.Resume()

	s.src.Suspend()
	s.src.ApplySilently(rec.Name, rec.FormData)
	s.src.MarkClean()
	s.src.Resume()
}

// Flush evaluates a pending snapshot immediately. It reports whether a draft
// was written.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return false
	}
	s.dropPendingLocked()
	s.mu.Unlock()
	return s.evaluate()
}

func (s *Scheduler) onEvent(ev form.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspended > 0 {
		return
	}
	s.dropPendingLocked()
	s.pending = true
	gen := s.gen
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen) })
}

func (s *Scheduler) dropPendingLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.pending || s.suspended > 0 {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.pending = false
	s.mu.Unlock()

	s.evaluate()
}

func (s *Scheduler) evaluate() bool {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	title := strings.TrimSpace(s.src.Title())
	candTitle := domain.TrimmedOr(title, domain.DefaultDraftName)
	data := s.src.Values()

	if cur, ok := s.saver.CurrentDraft(ctx); ok && !s.src.Dirty() &&
		cur.Name == candTitle && domain.FormDataEqual(cur.FormData, data) {
		s.log.Debug("autosave skipped: unchanged", zap.String("draft_id", cur.ID))
		return false
	}
	titleMeaningful := title != "" && title != domain.DefaultDraftName
	if !titleMeaningful && !domain.IsMeaningful(data) {
		s.log.Debug("autosave skipped: nothing to keep")
		return false
	}

	s.saving.Publish(true)
	rec, wrote := s.saver.SaveDraft(ctx, data, candTitle)
	s.saving.Publish(false)
	s.src.MarkClean()

	s.log.Debug("autosave evaluated", zap.String("draft_id", rec.ID), zap.Bool("wrote", wrote))
	return wrote
}
