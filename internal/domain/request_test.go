package domain

import (
	"testing"
)

func TestRequestID(t *testing.T) {
	t.Run("deterministic for the same pair", func(t *testing.T) {
		if RequestID("u1", "u2") != RequestID("u1", "u2") {
			t.Error("expected RequestID to be deterministic")
		}
	})

	t.Run("direction is significant", func(t *testing.T) {
		if RequestID("u1", "u2") == RequestID("u2", "u1") {
			t.Error("expected opposite directions to have distinct ids")
		}
	})

	t.Run("different pairs differ", func(t *testing.T) {
		if RequestID("u1", "u2") == RequestID("u1", "u3") {
			t.Error("expected different pairs to have distinct ids")
		}
	})

	t.Run("generates short hash", func(t *testing.T) {
		if len(RequestID("u1", "u2")) != 16 {
			t.Errorf("expected id length 16, got %d", len(RequestID("u1", "u2")))
		}
	})
}

func TestNewFriendRequest(t *testing.T) {
	req := NewFriendRequest("u1", "u2")

	if req.From != "u1" || req.To != "u2" {
		t.Errorf("unexpected endpoints: %s -> %s", req.From, req.To)
	}
	if req.ID != RequestID("u1", "u2") {
		t.Error("expected id to be derived from the pair")
	}
}
