package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	clientBuffer = 64
)

// conn represents one connected websocket client
type conn struct {
	id     string
	userID string
	rooms  map[string]bool
	send   chan []byte
	sock   *websocket.Conn
}

// broadcastMsg routes a raw envelope to a room, optionally excluding a sender
type broadcastMsg struct {
	room   string
	data   []byte
	except *conn
}

// Hub is the relay server. It groups clients into rooms and forwards opaque
// event envelopes to room members; it never inspects or stores graph data.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*conn]struct{}
	register   chan *conn
	unregister chan *conn
	broadcast  chan broadcastMsg

	upgrader websocket.Upgrader
}

// NewHub creates a new relay hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*conn]struct{}),
		register:   make(chan *conn),
		unregister: make(chan *conn),
		broadcast:  make(chan broadcastMsg, 256),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the app origin or localhost dev
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("Relay client connected: %s (total: %d)", c.id, total)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("Relay client disconnected: %s (total: %d)", c.id, total)

			// A vanished client was focused on nothing, as far as peers know
			if c.userID != "" {
				h.emitPresence(c.userID, nil, nil)
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if c == msg.except || !c.rooms[msg.room] {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					// Client is slow, skip this message
					log.Printf("Relay client %s is slow, skipping message", c.id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// emitPresence broadcasts a presence envelope to the global room
func (h *Hub) emitPresence(userID string, nodeID *string, except *conn) {
	ev := MustEvent(EventPresence, PresencePayload{UserID: userID, NodeID: nodeID})
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Failed to marshal presence event: %v", err)
		return
	}
	h.route(broadcastMsg{room: RoomGlobal, data: data, except: except})
}

func (h *Hub) route(msg broadcastMsg) {
	select {
	case h.broadcast <- msg:
	default:
		log.Println("Broadcast channel full, dropping event")
	}
}

// ServeHTTP upgrades the connection and runs the client pumps
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	c := &conn{
		id:    uuid.NewString(),
		rooms: make(map[string]bool),
		send:  make(chan []byte, clientBuffer),
		sock:  sock,
	}

	h.register <- c

	go h.writePump(c)
	h.readPump(c)
}

// readPump reads envelopes from the socket and dispatches them until the
// connection drops
func (h *Hub) readPump(c *conn) {
	defer func() {
		h.unregister <- c
		c.sock.Close()
	}()

	c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Relay client %s read error: %v", c.id, err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Relay client %s sent malformed envelope: %v", c.id, err)
			continue
		}

		h.dispatch(c, ev, data)
	}
}

// dispatch interprets join/joinRoom/presence and forwards everything else
// opaquely to the target room, excluding the sender
func (h *Hub) dispatch(c *conn, ev Event, raw []byte) {
	switch ev.Name {
	case EventJoin:
		var join JoinPayload
		if err := ev.DecodePayload(&join); err != nil {
			log.Printf("Bad join from %s: %v", c.id, err)
			return
		}
		h.mu.Lock()
		c.userID = join.UserID
		c.rooms[RoomGlobal] = true
		h.mu.Unlock()
		// Announce the newcomer with a null focus, sender included
		h.emitPresence(join.UserID, nil, nil)

	case EventJoinRoom:
		var jr JoinRoomPayload
		if err := ev.DecodePayload(&jr); err != nil {
			log.Printf("Bad joinRoom from %s: %v", c.id, err)
			return
		}
		h.mu.Lock()
		c.rooms[jr.Room] = true
		h.mu.Unlock()

	case EventPresence:
		// Presence fans out to everyone in the room, the sender included,
		// so late joiners and the sender's other tabs stay consistent
		h.route(broadcastMsg{room: h.targetRoom(ev), data: raw})

	default:
		h.route(broadcastMsg{room: h.targetRoom(ev), data: raw, except: c})
	}
}

func (h *Hub) targetRoom(ev Event) string {
	if ev.Room != "" {
		return ev.Room
	}
	return RoomGlobal
}

// writePump writes queued envelopes and keep-alive pings to the socket
func (h *Hub) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
