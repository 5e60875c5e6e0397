package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"smart_channels/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000

	wsTypeSnapshot = "snapshot"
	wsTypeError    = "error"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// TODO: restrict origins once the allowed frontends are configurable.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// channelStream remembers the last pushed channel so ticks only send changes.
type channelStream struct {
	userID    int
	channelID int
	last      *models.Channel
}

// @Summary      Channel stream
// @Description  WebSocket upgrade. Pushes the channel snapshot at once and then whenever its params change. Poll period via ?interval=2s or ?interval_ms=2000 (max 10s).
// @Tags         channels
// @Param        id           path   int     true   "Channel id"
// @Param        interval     query  string  false  "Poll period as Go duration"
// @Param        interval_ms  query  int     false  "Poll period in milliseconds"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/channels/{id}/ws [get]
// @Security     BearerAuth
func (h *Handler) wsConnect(c *gin.Context) {
	id, ok := h.channelID(c)
	if !ok {
		return
	}
	interval := h.parseInterval(c)
	stream := &channelStream{userID: c.GetInt(ctxUserID), channelID: id}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err, "channel_id", id)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	if err := h.sendSnapshot(c.Request.Context(), conn, stream); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err, "channel_id", id)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if err := h.sendSnapshot(c.Request.Context(), conn, stream); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "channel_id", id)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 with bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	interval := defaultInterval

	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}

	return interval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendSnapshot writes the channel snapshot if it differs from the last one sent.
// A lookup failure is reported to the client as an error envelope and ends the stream.
func (h *Handler) sendSnapshot(ctx context.Context, conn *websocket.Conn, s *channelStream) error {
	snap, err := h.services.Monitoring.Snapshot(ctx, s.userID, s.channelID)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_snapshot_failed", "err", err, "channel_id", s.channelID)
		}
		if werr := conn.WriteJSON(wsEnvelope{Type: wsTypeError, Error: err.Error()}); werr != nil {
			return werr
		}
		return err
	}
	if s.last != nil && *s.last == snap.Channel {
		return nil
	}
	if err := conn.WriteJSON(wsEnvelope{Type: wsTypeSnapshot, Data: snap}); err != nil {
		return err
	}
	s.last = &snap.Channel
	return nil
}
