package domain

import (
	"testing"
)

func TestEdgeSamePair(t *testing.T) {
	edge := NewEdge("u1", "u2")

	t.Run("matches stored orientation", func(t *testing.T) {
		if !edge.SamePair("u1", "u2") {
			t.Error("expected edge to match (u1,u2)")
		}
	})

	t.Run("matches reversed orientation", func(t *testing.T) {
		if !edge.SamePair("u2", "u1") {
			t.Error("expected edge to match (u2,u1)")
		}
	})

	t.Run("does not match other pairs", func(t *testing.T) {
		if edge.SamePair("u1", "u3") {
			t.Error("expected edge not to match (u1,u3)")
		}
	})
}

func TestPairKey(t *testing.T) {
	t.Run("reversed endpoints produce the same key", func(t *testing.T) {
		if PairKey("u1", "u2") != PairKey("u2", "u1") {
			t.Error("expected reversed endpoints to canonicalize to one key")
		}
	})

	t.Run("different pairs produce different keys", func(t *testing.T) {
		if PairKey("u1", "u2") == PairKey("u1", "u3") {
			t.Error("expected different pairs to have different keys")
		}
	})

	t.Run("edge key matches pair key", func(t *testing.T) {
		edge := NewEdge("u2", "u1")
		if edge.PairKey() != PairKey("u1", "u2") {
			t.Error("expected edge key to canonicalize endpoints")
		}
	})
}

func TestEdgeOther(t *testing.T) {
	edge := NewEdge("u1", "u2")

	if got := edge.Other("u1"); got != "u2" {
		t.Errorf("expected u2, got %s", got)
	}
	if got := edge.Other("u2"); got != "u1" {
		t.Errorf("expected u1, got %s", got)
	}
	if got := edge.Other("u9"); got != "" {
		t.Errorf("expected empty string for non-endpoint, got %s", got)
	}
}
