/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Room feeds
//
// Every room with at least one websocket subscriber gets a hub goroutine.
// Subscribers receive the room's public state when they connect and again
// after every successful change to the room. Changes are coalesced: a burst of
// actions produces at least one fresh snapshot, not one per action.
//
// Hubs that have been idle longer than the session timeout are reaped along
// with their connections. The room itself stays in the store.

package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Seednode/oogiri/games/oogiri"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	sendBuffer = 8
	writeWait  = 10 * time.Second
	qrSize     = 320
)

// StateMessage carries a room snapshot to subscribers.
type StateMessage struct {
	Type string            `json:"type"`
	Room *oogiri.RoomState `json:"room"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type Hub struct {
	id      string
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	changed  chan struct{}
	quit     chan struct{}
	stopOnce sync.Once

	mu         sync.RWMutex
	lastActive time.Time
}

func newHub(roomID string, now time.Time) *Hub {
	return &Hub{
		id:         roomID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		changed:    make(chan struct{}, 1),
		quit:       make(chan struct{}),
		lastActive: now,
	}
}

func (h *Hub) touch(now time.Time) {
	h.mu.Lock()
	h.lastActive = now
	h.mu.Unlock()
}

func (h *Hub) idleSince() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.lastActive
}

// notify marks the room as changed. It never blocks.
func (h *Hub) notify() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) run(ctx context.Context, gm *GameManager) {
	defer func() {
		h.stop()
		h.closeAll()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-h.quit:
			return

		case c := <-h.register:
			h.touch(gm.clock.Now())
			h.clients[c] = true

			if msg, ok := gm.state(ctx, h.id); ok {
				h.deliver(c, msg)
			}

		case c := <-h.unreg:
			h.touch(gm.clock.Now())

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case <-h.changed:
			h.touch(gm.clock.Now())

			if len(h.clients) == 0 {
				continue
			}
			msg, ok := gm.state(ctx, h.id)
			if !ok {
				continue
			}
			for c := range h.clients {
				h.deliver(c, msg)
			}
		}
	}
}

// deliver queues msg for c, dropping the client if its buffer is full.
func (h *Hub) deliver(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// closeAll disconnects all clients of this hub.
func (h *Hub) closeAll() {
	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GameManager holds the hubs of rooms that currently have subscribers.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	ctx    context.Context
	svc    *oogiri.Service
	clock  quartz.Clock
	logger *log.Logger
}

func newGameManager(ctx context.Context, idleTimeout time.Duration, clock quartz.Clock, logger *log.Logger) *GameManager {
	return &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		ctx:         ctx,
		clock:       clock,
		logger:      logger,
	}
}

// attach sets the service snapshots are read from. It is separate from
// construction because the service needs publish as its notifier.
func (gm *GameManager) attach(svc *oogiri.Service) {
	gm.svc = svc
}

func (gm *GameManager) state(ctx context.Context, roomID string) (StateMessage, bool) {
	state, err := gm.svc.Snapshot(ctx, roomID)
	if err != nil {
		gm.logger.Warn("GAMES: Snapshot failed", "room", roomID, "err", err)

		return StateMessage{}, false
	}
	return StateMessage{Type: "room_state", Room: state}, true
}

func (gm *GameManager) getHub(roomID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[roomID]; ok {
		return hub
	}

	hub := newHub(roomID, gm.clock.Now())
	gm.hubs[roomID] = hub
	go hub.run(gm.ctx, gm)

	gm.logger.Debug("GAMES: Opened room feed", "room", roomID)

	return hub
}

func (gm *GameManager) count() int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	return len(gm.hubs)
}

// publish is the service notifier: it wakes the room's hub, if any.
func (gm *GameManager) publish(roomID string) {
	gm.mu.Lock()
	hub, ok := gm.hubs[roomID]
	gm.mu.Unlock()

	if ok {
		hub.notify()
	}
}

// reapIdle stops every hub idle since before the cutoff and returns how many
// were removed.
func (gm *GameManager) reapIdle() int {
	cutoff := gm.clock.Now().Add(-gm.idleTimeout)

	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		if hub.idleSince().Before(cutoff) {
			delete(gm.hubs, id)
			hub.stop()
			reaped++

			gm.logger.Debug("GAMES: Reaped idle room feed", "room", id)
		}
	}
	return reaped
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout, until ctx is done.
func (gm *GameManager) reaperLoop(ctx context.Context) error {
	if gm.idleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := gm.clock.NewTicker(gm.idleTimeout/2, "reaper")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.reapIdle()
		}
	}
}

// serveWS subscribes a websocket to the room named by :roomId.
func serveWS(gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomId")

		if _, err := gm.svc.Snapshot(r.Context(), roomID); err != nil {
			writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			gm.logger.Debug("SERVE: Websocket upgrade failed", "room", roomID, "err", err)
			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, sendBuffer),
		}

		hub := gm.getHub(roomID)
		select {
		case hub.register <- client:
		case <-hub.quit:
			_ = conn.Close()
			return
		}

		gm.logger.Debug("SERVE: Websocket subscribed", "room", roomID, "remote", realIP(r))

		go client.writePump()
		client.readPump(hub)
	}
}

// readPump discards client messages until the connection closes.
func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.quit:
		}
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// qrHandler generates a PNG QR code pointing players at the room's join page.
func qrHandler(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		roomID := ps.ByName("roomId")

		if _, err := gm.svc.Snapshot(r.Context(), roomID); err != nil {
			writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
			return
		}

		// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
		scheme := cfg.scheme()
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/?room=" + roomID

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "qr generation failed"})
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		_, _ = w.Write(png)
	}
}

func registerRoomFeeds(cfg *Config, mux *httprouter.Router, gm *GameManager) {
	mux.GET(cfg.prefix+"/api/rooms/:roomId/ws", serveWS(gm))
	mux.GET(cfg.prefix+"/api/rooms/:roomId/qr", qrHandler(cfg, gm))
}
