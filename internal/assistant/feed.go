// Package assistant consumes the assistant's WebSocket feed of proposed form
// field values. The feed is receive-only.
package assistant

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/notify"
)

// DefaultReconnect is the delay before redialing a dropped connection.
const DefaultReconnect = 5 * time.Second

// Applier receives parsed field updates. Satisfied by *form.Form.
type Applier interface {
	Patch(updates []form.FieldUpdate) error
}

type Option func(*Feed)

func WithReconnect(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.reconnect = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(f *Feed) { f.log = l }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(f *Feed) { f.dialer = d }
}

// Feed keeps a connection to the assistant open and applies every update
// message it receives.
type Feed struct {
	url       string
	applier   Applier
	dialer    *websocket.Dialer
	reconnect time.Duration
	log       *zap.Logger
	connected *notify.Channel[bool]
}

func NewFeed(url string, applier Applier, opts ...Option) *Feed {
	f := &Feed{
		url:       url,
		applier:   applier,
		dialer:    websocket.DefaultDialer,
		reconnect: DefaultReconnect,
		log:       zap.NewNop(),
		connected: notify.NewChannel(false),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connected is true while a connection is open.
func (f *Feed) Connected() *notify.Channel[bool] { return f.connected }

// Run dials, reads and redials until ctx is done. It returns ctx.Err().
func (f *Feed) Run(ctx context.Context) error {
	for {
		if err := f.session(ctx); err != nil && ctx.Err() == nil {
			f.log.Warn("assistant feed disconnected, reconnecting",
				zap.String("url", f.url), zap.Duration("delay", f.reconnect), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.reconnect):
		}
	}
}

func (f *Feed) session(ctx context.Context) error {
	conn, _, err := f.dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.connected.Publish(true)
	defer f.connected.Publish(false)
	f.log.Info("assistant feed connected", zap.String("url", f.url))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("closed by assistant")
			}
			return err
		}
		f.handle(data)
	}
}

func (f *Feed) handle(data []byte) {
	updates, err := ParseMessage(data)
	if err != nil {
		f.log.Warn("skipping assistant message", zap.Error(err))
		return
	}
	if len(updates) == 0 {
		return
	}
	if err := f.applier.Patch(updates); err != nil {
		f.log.Warn("assistant update partly rejected", zap.Error(err))
	}
}
