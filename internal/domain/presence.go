package domain

// PresenceEntry records which node a user is currently focused on.
// A nil NodeID means the user is not focused on any node (or disconnected).
// Entries are rebuilt from the most recent event per user; nothing persists.
type PresenceEntry struct {
	UserID string  `json:"userId"`
	NodeID *string `json:"nodeId"`
}

// NewPresenceEntry creates a presence entry. Pass "" for no focused node.
func NewPresenceEntry(userID, nodeID string) PresenceEntry {
	entry := PresenceEntry{UserID: userID}
	if nodeID != "" {
		entry.NodeID = &nodeID
	}
	return entry
}

// Focused reports whether the entry points at a node
func (p PresenceEntry) Focused() bool {
	return p.NodeID != nil
}
