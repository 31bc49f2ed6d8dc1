package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func (h *handlers) upgrader() websocket.Upgrader {
	allow := originMatcher(h.deps.AllowedOrigins)
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allow(origin)
		},
	}
}

// stream pushes registry, draft and autosave state to the client. Each
// channel replays its latest value on connect.
func (h *handlers) stream(c *gin.Context) {
	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	bus := h.deps.Services.Engine.Bus()
	subs := bus.Submissions.Watch(ctx)
	drafts := bus.Draft.Watch(ctx)
	var saving <-chan bool
	if h.deps.Scheduler != nil {
		saving = h.deps.Scheduler.Saving().Watch(ctx)
	}

	go readPump(conn, cancel)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		var msg StreamMessage
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case list, ok := <-subs:
			if !ok {
				return
			}
			msg = StreamMessage{Type: StreamSubmissions, Payload: list}
		case rec, ok := <-drafts:
			if !ok {
				return
			}
			msg = StreamMessage{Type: StreamDraft, Payload: rec}
		case v, ok := <-saving:
			if !ok {
				return
			}
			msg = StreamMessage{Type: StreamAutosaving, Payload: v}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.Debug("stream write failed", zap.Error(err))
			return
		}
	}
}

// readPump discards client frames and keeps the read deadline moving on pong.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
