package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nao1215/phishguard/internal/monitor"
	"github.com/nao1215/phishguard/internal/presenter"
)

// ErrNoSubscribers is returned when an event has nobody to deliver it to.
var ErrNoSubscribers = errors.New("no extension connected")

const (
	// ActionNotify asks the extension to raise a desktop notification.
	ActionNotify = "notify"
	// ActionShowWarning asks the content script to insert the banner.
	ActionShowWarning = "showWarning"

	sendBuffer   = 16
	writeTimeout = 5 * time.Second
	readLimit    = 4096
)

// Event is a message pushed to subscribers.
type Event struct {
	Action  string `json:"action"`
	TabID   int    `json:"tabId"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Epoch   uint64 `json:"epoch,omitempty"`
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected extension. It is safe for
// concurrent use.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*subscriber
	closed  bool
	banners *presenter.BannerTracker

	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var _ monitor.Presenter = (*Hub)(nil)
var _ monitor.TabCloser = (*Hub)(nil)

// NewHub creates a Hub. A nil logger selects slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:    make(map[string]*subscriber),
		banners: presenter.NewBannerTracker(),
		upgrader: websocket.Upgrader{
			// Extension pages use a chrome-extension:// origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Subscribers returns the number of connected extensions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Notify implements monitor.Presenter.
func (h *Hub) Notify(ctx context.Context, n monitor.Notification) error {
	return h.broadcast(ctx, Event{
		Action:  ActionNotify,
		TabID:   n.TabID,
		Title:   n.Title,
		Message: n.Message,
	})
}

// ShowWarning implements monitor.Presenter. The banner for a given
// (tabID, epoch) is pushed at most once; a failed push does not count.
func (h *Hub) ShowWarning(ctx context.Context, tabID int, epoch uint64) error {
	if h.Subscribers() == 0 {
		return ErrNoSubscribers
	}
	if !h.banners.EnsurePresented(tabID, epoch) {
		h.logger.Debug("banner already requested", "tab", tabID, "epoch", epoch)
		return nil
	}
	err := h.broadcast(ctx, Event{
		Action: ActionShowWarning,
		TabID:  tabID,
		Epoch:  epoch,
	})
	if err != nil {
		h.banners.Revoke(tabID, epoch)
	}
	return err
}

// TabClosed implements monitor.TabCloser.
func (h *Hub) TabClosed(tabID int) {
	h.banners.Clear(tabID)
}

func (h *Hub) broadcast(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.subs) == 0 {
		return ErrNoSubscribers
	}

	delivered := 0
	for _, s := range h.subs {
		select {
		case s.send <- data:
			delivered++
		case <-ctx.Done():
			return ctx.Err()
		default:
			h.logger.Warn("subscriber queue full, event dropped",
				"subscriber", s.id,
				"action", ev.Action,
			)
		}
	}
	if delivered == 0 {
		return ErrNoSubscribers
	}
	return nil
}

// ServeHTTP upgrades the request to a WebSocket and streams events until
// the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "websocket upgrade required"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(readLimit)

	s := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if !h.register(s) {
		_ = conn.Close()
		return
	}
	h.logger.Info("extension connected", "subscriber", s.id)

	go h.writeLoop(s)

	// Incoming frames are ignored; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(s)
	h.logger.Info("extension disconnected", "subscriber", s.id)
}

func (h *Hub) writeLoop(s *subscriber) {
	defer s.conn.Close()
	for data := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("write to subscriber failed", "subscriber", s.id, "error", err)
			return
		}
	}
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) register(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[s.id] = s
	return true
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[s.id]; ok {
		delete(h.subs, s.id)
		close(s.send)
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.send)
	}
}
