package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsSendBuffer = 32
)

// StreamEvent is the envelope pushed to websocket subscribers.
type StreamEvent struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data,omitempty"`
}

const (
	StreamKindAlert      = "alert"
	StreamKindDismiss    = "dismiss"
	StreamKindDismissAll = "dismiss_all"
	StreamKindState      = "state"
)

// StreamHub fans alert and state events out to connected websocket clients.
// It implements domain.Notifier and domain.StatePublisher so it can sit next
// to the MQTT notifier behind a fanout.
type StreamHub struct {
	mu       sync.RWMutex
	clients  map[*streamClient]struct{}
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

type streamClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewStreamHub() *StreamHub {
	return &StreamHub{
		clients: make(map[*streamClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.ComponentLogger("stream-hub"),
	}
}

// Handler upgrades the request and streams events until the client leaves.
func (h *StreamHub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		client := &streamClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
		h.register(client)

		go h.writePump(client)
		h.readPump(client)
	}
}

func (h *StreamHub) register(c *streamClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug().Int("clients", n).Msg("client connected")
}

func (h *StreamHub) unregister(c *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *StreamHub) readPump(c *streamClient) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		// Inbound frames are not part of the protocol, drain until close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *StreamHub) writePump(c *streamClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast serializes the event once and queues it to every client. Slow
// clients get dropped rather than backing up the monitor.
func (h *StreamHub) Broadcast(event StreamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("marshal stream event")
		return
	}

	h.mu.RLock()
	stale := make([]*streamClient, 0)
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.unregister(c)
	}
}

func (h *StreamHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *StreamHub) Notify(_ context.Context, n domain.Notification) error {
	h.Broadcast(StreamEvent{Kind: StreamKindAlert, Data: n})
	return nil
}

func (h *StreamHub) Dismiss(_ context.Context, id string) error {
	h.Broadcast(StreamEvent{Kind: StreamKindDismiss, Data: domain.Dismissal{ID: id}})
	return nil
}

func (h *StreamHub) DismissAll(_ context.Context) error {
	h.Broadcast(StreamEvent{Kind: StreamKindDismissAll})
	return nil
}

func (h *StreamHub) PublishState(_ context.Context, snap *domain.TelemetrySnapshot) error {
	if snap == nil {
		return nil
	}
	h.Broadcast(StreamEvent{Kind: StreamKindState, Data: snap})
	return nil
}
