package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/events"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/types"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	maxFrame   = 4 * 1024

	// outboundBuffer bounds the per-connection backlog. A shell that
	// cannot keep up loses events instead of stalling the emitters.
	outboundBuffer = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the shell is served same-origin; dev servers vary
	},
}

// Handler fans committed desktop events out to connected shells.
type Handler struct {
	bus     *events.Bus
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a WebSocket handler over the event bus.
func NewHandler(bus *events.Bus, log *logging.Logger) *Handler {
	return &Handler{
		bus: bus,
		log: log.Component("ws"),
	}
}

// WithMetrics adds connection and message tracking.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// client is one connected shell. A single writer goroutine owns the
// socket's write side; everything else queues frames through outbound.
type client struct {
	conn     *websocket.Conn
	outbound chan interface{}

	mu     sync.Mutex
	topics []string
}

// queue hands a frame to the writer, dropping it when the buffer is full.
func (cl *client) queue(frame interface{}) bool {
	select {
	case cl.outbound <- frame:
		return true
	default:
		return false
	}
}

func (cl *client) setTopics(topics []string) {
	cl.mu.Lock()
	cl.topics = append([]string(nil), topics...)
	cl.mu.Unlock()
}

// wants reports whether the topic filter admits t. An empty filter admits
// everything; a topic matches exactly or as a dot prefix, so "fs" covers
// "fs.changed".
func (cl *client) wants(t types.EventType) bool {
	cl.mu.Lock()
	topics := cl.topics
	cl.mu.Unlock()

	if len(topics) == 0 {
		return true
	}
	s := string(t)
	for _, topic := range topics {
		if s == topic || strings.HasPrefix(s, topic+".") {
			return true
		}
	}
	return false
}

// HandleConnection upgrades the request and serves the event stream until
// the client goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	cl := &client{
		conn:     conn,
		outbound: make(chan interface{}, outboundBuffer),
	}

	// Subscribe before the hello frame goes out: a client that has seen
	// the hello is guaranteed to receive every event emitted after it.
	evs, cancel := h.bus.Subscribe(outboundBuffer)
	defer cancel()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		h.writePump(cl, done)
	}()
	go func() {
		defer wg.Done()
		h.forward(cl, evs)
	}()

	cl.queue(map[string]interface{}{
		"type":      "system",
		"message":   "connected",
		"timestamp": time.Now().Unix(),
	})

	h.readLoop(cl)

	cancel()
	close(done)
	wg.Wait()
}

// readLoop consumes client frames until the connection drops.
func (h *Handler) readLoop(cl *client) {
	cl.conn.SetReadLimit(maxFrame)
	cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg types.WSMessage
		if err := cl.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case "ping":
			cl.queue(map[string]interface{}{
				"type":      "pong",
				"timestamp": time.Now().Unix(),
			})
		case "subscribe":
			cl.setTopics(msg.Topics)
			cl.queue(map[string]interface{}{
				"type":      "subscribed",
				"topics":    msg.Topics,
				"timestamp": time.Now().Unix(),
			})
		default:
			cl.queue(map[string]interface{}{
				"type":      "error",
				"message":   "unknown message type",
				"timestamp": time.Now().Unix(),
			})
		}
	}
}

// forward pushes bus events through the client's topic filter.
func (h *Handler) forward(cl *client, evs <-chan types.Event) {
	for ev := range evs {
		if !cl.wants(ev.Type) {
			continue
		}
		frame := map[string]interface{}{
			"type": string(ev.Type),
			"time": ev.Time,
		}
		if ev.Data != nil {
			frame["data"] = ev.Data
		}
		if cl.queue(frame) && h.metrics != nil {
			h.metrics.RecordWSMessage("out", string(ev.Type))
		}
	}
}

// writePump is the only goroutine writing to the socket. It drains the
// outbound queue and keeps the connection alive with control pings.
func (h *Handler) writePump(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case frame := <-cl.outbound:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
