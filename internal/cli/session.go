package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/assistant"
	"github.com/alexanderramin/formdraft/internal/autosave"
	"github.com/alexanderramin/formdraft/internal/form"
)

// session is one hosted form wired to autosave and, when enabled, the
// assistant feed. The current draft is loaded into the form on start.
type session struct {
	form      *form.Form
	scheduler *autosave.Scheduler
	feed      *assistant.Feed
	cancel    context.CancelFunc
	done      chan struct{}
}

func (app *App) startSession(ctx context.Context, withAssistant bool) *session {
	ctx, cancel := context.WithCancel(ctx)
	log := app.logger()

	f := form.New(app.schema())
	sched := autosave.New(f, app.Services.Drafts,
		autosave.WithDebounce(app.Config.Autosave.Debounce()),
		autosave.WithLogger(log.Named("autosave")))
	if cur, ok := app.Services.Drafts.CurrentDraft(ctx); ok {
		sched.LoadInto(cur)
	}
	sched.Start(ctx)

	s := &session{form: f, scheduler: sched, cancel: cancel, done: make(chan struct{})}

	if withAssistant && app.Config.Assistant.Enabled {
		s.feed = assistant.NewFeed(app.Config.Assistant.URL, f,
			assistant.WithReconnect(app.Config.Assistant.Reconnect()),
			assistant.WithLogger(log.Named("assistant")))
		go func() {
			defer close(s.done)
			_ = s.feed.Run(ctx)
		}()
	} else {
		close(s.done)
	}
	return s
}

// close saves any pending snapshot and stops the session.
func (s *session) close(log *zap.Logger) {
	if s.scheduler.Flush() {
		log.Debug("flushed pending draft on exit")
	}
	s.scheduler.Stop()
	s.cancel()
	<-s.done
}
