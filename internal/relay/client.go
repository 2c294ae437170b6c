package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is the transport adapter used by the synchronization engine. It is
// the only component translating between engine events and wire envelopes.
type Client struct {
	sock   *websocket.Conn
	events chan Event

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

// Dial connects to a relay server websocket endpoint
func Dial(ctx context.Context, url string) (*Client, error) {
	sock, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", url, err)
	}

	c := &Client{
		sock:   sock,
		events: make(chan Event, clientBuffer),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Join registers the client's user in the global presence room
func (c *Client) Join(userID string) error {
	return c.Emit(MustEvent(EventJoin, JoinPayload{UserID: userID}))
}

// JoinRoom joins an additional room
func (c *Client) JoinRoom(room string) error {
	return c.Emit(MustEvent(EventJoinRoom, JoinRoomPayload{Room: room}))
}

// Emit sends an envelope to the relay. The relay forwards it to the other
// members of the target room, never back to this client (presence excepted).
func (c *Client) Emit(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.sock.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("emit %s: %w", ev.Name, err)
	}
	return nil
}

// Events returns the inbound event channel. The channel is closed when the
// connection drops; consumers degrade to local-only operation.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Close tears down the connection and stops the read loop
func (c *Client) Close() error {
	c.once.Do(func() { close(c.done) })
	return c.sock.Close()
}

func (c *Client) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.sock.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				log.Printf("Relay connection lost: %v", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Malformed relay envelope: %v", err)
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}
