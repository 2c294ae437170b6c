package relay

import (
	"encoding/json"
	"fmt"
)

// Event names carried on the wire
const (
	EventJoin          = "join"
	EventJoinRoom      = "joinRoom"
	EventPresence      = "presence"
	EventFriendRequest = "friendRequest"
	EventFriendRemove  = "friendRemove"
)

// RoomGlobal is the room every joined client belongs to
const RoomGlobal = "global"

// Event is the wire envelope. The relay forwards Payload opaquely; only
// join, joinRoom and presence are interpreted by the server itself.
type Event struct {
	Name    string          `json:"event"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload registers the client in the global presence room
type JoinPayload struct {
	UserID string `json:"userId"`
}

// JoinRoomPayload joins an additional room (per-relationship, chat)
type JoinRoomPayload struct {
	Room string `json:"room"`
}

// PresencePayload announces which node a user is focused on.
// A nil NodeID means no focus (or disconnect).
type PresencePayload struct {
	UserID string  `json:"userId"`
	NodeID *string `json:"nodeId"`
}

// FriendRequestPayload carries a pending request plus the transient
// reconciliation flags. Approved/declined are instructions for peers,
// never stored state.
type FriendRequestPayload struct {
	ID       string `json:"id"`
	From     string `json:"from"`
	To       string `json:"to"`
	Approved bool   `json:"approved,omitempty"`
	Declined bool   `json:"declined,omitempty"`
}

// FriendRemovePayload announces that the unordered edge (from,to) is gone
type FriendRemovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewEvent builds an envelope with a marshaled payload
func NewEvent(name string, payload interface{}) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return Event{Name: name, Payload: data}, nil
}

// MustEvent builds an envelope for payload types that cannot fail to marshal
func MustEvent(name string, payload interface{}) Event {
	ev, err := NewEvent(name, payload)
	if err != nil {
		panic(err)
	}
	return ev
}

// DecodePayload unmarshals the envelope payload into target
func (e Event) DecodePayload(target interface{}) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.Name)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Name, err)
	}
	return nil
}
