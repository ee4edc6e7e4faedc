package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/riskibarqy/league-auction/internal/domain/tournament"
	"github.com/riskibarqy/league-auction/internal/platform/logging"
	"github.com/riskibarqy/league-auction/internal/usecase"
)

const (
	defaultSendBuffer = 16
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = pongWait * 9 / 10
	maxInboundBytes   = 512
)

// Encoder turns a console snapshot into the frame sent to subscribers.
type Encoder func(snapshot usecase.ConsoleSnapshot) ([]byte, error)

type HubConfig struct {
	SendBuffer     int
	AllowedOrigins []string
	Encode         Encoder
	Logger         *logging.Logger
}

// Hub fans console snapshots out to websocket subscribers of each track.
// A subscriber whose buffer is full is dropped.
type Hub struct {
	mu         sync.RWMutex
	tracks     map[string]map[*subscriber]struct{}
	sendBuffer int
	encode     Encoder
	upgrader   websocket.Upgrader
	logger     *logging.Logger
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	sendBuffer := cfg.SendBuffer
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}

	h := &Hub{
		tracks:     make(map[string]map[*subscriber]struct{}),
		sendBuffer: sendBuffer,
		encode:     cfg.Encode,
		logger:     logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(cfg.AllowedOrigins),
	}
	return h
}

// Publish implements usecase.SnapshotPublisher.
func (h *Hub) Publish(ctx context.Context, track tournament.Track, snapshot usecase.ConsoleSnapshot) {
	if h.encode == nil {
		return
	}
	frame, err := h.encode(snapshot)
	if err != nil {
		h.logger.WarnContext(ctx, "encode console snapshot failed", "track", track.Key(), "error", err)
		return
	}
	h.Broadcast(track, frame)
}

func (h *Hub) Broadcast(track tournament.Track, frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.tracks[track.Key()] {
		select {
		case sub.send <- frame:
		default:
			h.removeLocked(track.Key(), sub)
			h.logger.Warn("dropping slow console subscriber", "track", track.Key())
		}
	}
}

func (h *Hub) Subscribers(track tournament.Track) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tracks[track.Key()])
}

// Serve upgrades the request and streams frames for track until the peer leaves.
// initial, when non-empty, is sent before any broadcast frame.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, track tournament.Track, initial []byte) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, h.sendBuffer)}
	if len(initial) > 0 {
		sub.send <- initial
	}

	h.mu.Lock()
	if h.tracks[track.Key()] == nil {
		h.tracks[track.Key()] = make(map[*subscriber]struct{})
	}
	h.tracks[track.Key()][sub] = struct{}{}
	h.mu.Unlock()

	h.logger.InfoContext(r.Context(), "console subscriber joined", "track", track.Key())

	go h.writePump(sub)
	h.readPump(track, sub)
	return nil
}

func (h *Hub) readPump(track tournament.Track, sub *subscriber) {
	defer func() {
		h.mu.Lock()
		h.removeLocked(track.Key(), sub)
		h.mu.Unlock()
		_ = sub.conn.Close()
	}()

	sub.conn.SetReadLimit(maxInboundBytes)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) removeLocked(key string, sub *subscriber) {
	subs := h.tracks[key]
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.tracks, key)
	}
	sub.close()
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
