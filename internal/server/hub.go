package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/view"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is the envelope for every frame the hub sends.
type WSMessage struct {
	Type   string `json:"type"`
	GameID string `json:"game_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// wsClient is one websocket connection watching one game. A client with a
// player id receives that seat's filtered view; without one it spectates.
type wsClient struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	playerID string
}

type gameUpdate struct {
	gameID string
	snap   *game.Snapshot
}

// Hub fans game updates out to websocket clients grouped into per-game
// rooms. All room state is owned by the Run goroutine; every mutation
// arrives over a channel, so there are no locks.
type Hub struct {
	logger *zap.Logger

	rooms     map[string]map[*wsClient]bool
	snapshots map[string]*game.Snapshot

	updates    chan gameUpdate
	register   chan *wsClient
	unregister chan *wsClient
}

// NewHub creates a hub. Call Run on its own goroutine before serving.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:     logger,
		rooms:      make(map[string]map[*wsClient]bool),
		snapshots:  make(map[string]*game.Snapshot),
		updates:    make(chan gameUpdate, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
	}
}

// Run is the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case u := <-h.updates:
			h.snapshots[u.gameID] = u.snap
			h.fanOut(u.gameID, u.snap)
		}
	}
}

// GameUpdated implements match.Broadcaster. It must not block the match
// manager, so when the hub falls behind the update is dropped; the next one
// carries the full state anyway.
func (h *Hub) GameUpdated(gameID string, snap *game.Snapshot) {
	select {
	case h.updates <- gameUpdate{gameID: gameID, snap: snap}:
	default:
		h.logger.Warn("dropping game update, hub backlog full",
			zap.String("game_id", gameID))
	}
}

// ServeWS upgrades the connection and joins the client to a game room. The
// game id comes from the game query parameter, the optional seat from
// player.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "missing game parameter", http.StatusBadRequest)
		return
	}
	playerID := r.URL.Query().Get("player")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		gameID:   gameID,
		playerID: playerID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) registerClient(client *wsClient) {
	if h.rooms[client.gameID] == nil {
		h.rooms[client.gameID] = make(map[*wsClient]bool)
	}
	h.rooms[client.gameID][client] = true

	// A late joiner gets the current state straight away.
	if snap, ok := h.snapshots[client.gameID]; ok {
		if data, err := h.encode(client, snap); err == nil {
			client.send <- data
		}
	}

	h.logger.Info("websocket client joined",
		zap.String("game_id", client.gameID),
		zap.String("player_id", client.playerID),
		zap.Int("room_size", len(h.rooms[client.gameID])))
}

func (h *Hub) unregisterClient(client *wsClient) {
	clients, ok := h.rooms[client.gameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.gameID)
		delete(h.snapshots, client.gameID)
	}

	h.logger.Info("websocket client left",
		zap.String("game_id", client.gameID),
		zap.Int("room_size", len(clients)))
}

// fanOut sends each client in the room its own filtered view. Views differ
// per seat, so every client gets its own encoding.
func (h *Hub) fanOut(gameID string, snap *game.Snapshot) {
	clients, ok := h.rooms[gameID]
	if !ok {
		return
	}
	for client := range clients {
		data, err := h.encode(client, snap)
		if err != nil {
			h.logger.Error("encoding game update", zap.Error(err))
			continue
		}
		select {
		case client.send <- data:
		default:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) encode(client *wsClient, snap *game.Snapshot) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:   "game_state",
		GameID: client.gameID,
		Data:   view.For(snap, client.playerID),
	})
}

// readPump drains the connection. Clients act over the HTTP API, so inbound
// frames only keep the connection alive.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.Error(err))
			}
			break
		}
	}
}

// writePump pushes queued frames and pings on a shared ticker.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
