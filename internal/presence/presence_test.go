package presence

import (
	"testing"

	"sociogram/internal/relay"
)

func TestSetAndGet(t *testing.T) {
	tr := NewTracker()
	tr.Set("u1", "n5")

	e, ok := tr.Get("u1")
	if !ok {
		t.Fatal("expected entry for u1")
	}
	if e.NodeID == nil || *e.NodeID != "n5" {
		t.Errorf("expected focus n5, got %v", e.NodeID)
	}
}

func TestOverwriteIsTheOnlyUpdatePath(t *testing.T) {
	tr := NewTracker()
	tr.Set("u1", "n5")
	tr.Set("u1", "")

	e, ok := tr.Get("u1")
	if !ok {
		t.Fatal("clearing focus must not remove the entry")
	}
	if e.NodeID != nil {
		t.Errorf("expected cleared focus, got %v", *e.NodeID)
	}
}

func TestApplyPresenceEvent(t *testing.T) {
	tr := NewTracker()
	node := "n2"
	tr.Apply(relay.MustEvent(relay.EventPresence, relay.PresencePayload{UserID: "u2", NodeID: &node}))

	e, ok := tr.Get("u2")
	if !ok || e.NodeID == nil || *e.NodeID != "n2" {
		t.Errorf("expected u2 focused on n2, got %+v ok=%v", e, ok)
	}

	// A disconnect arrives as presence with null focus
	tr.Apply(relay.MustEvent(relay.EventPresence, relay.PresencePayload{UserID: "u2"}))
	e, _ = tr.Get("u2")
	if e.NodeID != nil {
		t.Errorf("expected null focus after disconnect, got %v", *e.NodeID)
	}
}

func TestApplyIgnoresForeignAndMalformed(t *testing.T) {
	tr := NewTracker()
	tr.Apply(relay.MustEvent(relay.EventFriendRemove, relay.FriendRemovePayload{From: "a", To: "b"}))
	tr.Apply(relay.Event{Name: relay.EventPresence, Payload: []byte(`{broken`)})

	if len(tr.Snapshot()) != 0 {
		t.Error("foreign or malformed events must not create entries")
	}
}

func TestFocused(t *testing.T) {
	tr := NewTracker()
	tr.Set("u1", "n5")
	tr.Set("u2", "n5")
	tr.Set("u3", "n7")
	tr.Set("u4", "")

	users := tr.Focused("n5")
	if len(users) != 2 {
		t.Errorf("expected 2 users on n5, got %v", users)
	}
}
