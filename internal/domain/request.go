package domain

import (
	"crypto/sha256"
	"fmt"
)

// FriendRequest represents a directional, pending proposal to create an edge.
// Approved/declined are reconciliation instructions carried on the wire only;
// they are never part of stored state.
type FriendRequest struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// NewFriendRequest creates a request with its deterministic id
func NewFriendRequest(from, to string) FriendRequest {
	return FriendRequest{
		ID:   RequestID(from, to),
		From: from,
		To:   to,
	}
}

// RequestID derives a deterministic id from the ordered (from,to) pair so
// that retries and relay redeliveries collapse onto the same request.
// The direction matters: a request from a to b is distinct from b to a.
func RequestID(from, to string) string {
	key := fmt.Sprintf("req-%s-%s", from, to)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}
