// Package presence tracks which node each connected user is currently
// focused on. The map is ephemeral: it is rebuilt from the most recent
// event per user, never persisted, and a disconnect is represented as
// an entry with no focused node rather than a removal.
package presence

import (
	"log"
	"sync"

	"sociogram/internal/domain"
	"sociogram/internal/relay"
)

// Tracker holds the latest focus entry per user.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]domain.PresenceEntry
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		entries: make(map[string]domain.PresenceEntry),
	}
}

// Set records the given user's focus. An empty nodeID clears it.
func (t *Tracker) Set(userID, nodeID string) {
	if userID == "" {
		return
	}
	t.mu.Lock()
	t.entries[userID] = domain.NewPresenceEntry(userID, nodeID)
	t.mu.Unlock()
}

// Apply reconciles an inbound presence event. Other event names and
// malformed payloads are ignored.
func (t *Tracker) Apply(ev relay.Event) {
	if ev.Name != relay.EventPresence {
		return
	}
	var p relay.PresencePayload
	if err := ev.DecodePayload(&p); err != nil {
		log.Printf("Ignoring malformed presence: %v", err)
		return
	}
	if p.UserID == "" {
		return
	}
	t.mu.Lock()
	t.entries[p.UserID] = domain.PresenceEntry{UserID: p.UserID, NodeID: p.NodeID}
	t.mu.Unlock()
}

// Get returns the entry for a user and whether one is known.
func (t *Tracker) Get(userID string) (domain.PresenceEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[userID]
	return e, ok
}

// Focused returns the user ids currently focused on the given node.
func (t *Tracker) Focused(nodeID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var users []string
	for _, e := range t.entries {
		if e.NodeID != nil && *e.NodeID == nodeID {
			users = append(users, e.UserID)
		}
	}
	return users
}

// Snapshot returns a copy of all entries.
func (t *Tracker) Snapshot() map[string]domain.PresenceEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]domain.PresenceEntry, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}
	return out
}
