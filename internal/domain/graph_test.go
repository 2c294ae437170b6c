package domain

import (
	"reflect"
	"testing"
)

func testGraph() ([]Node, []Edge) {
	nodes := []Node{
		*NewNode("u1", "Alice"),
		*NewNode("u2", "Bob"),
		*NewNode("u3", "Carol"),
		*NewNode("u4", "Dave"),
		*NewNode("u5", "Eve"),
	}
	edges := []Edge{
		NewEdge("u1", "u2"),
		NewEdge("u2", "u3"),
		NewEdge("u3", "u4"),
	}
	return nodes, edges
}

func TestAdjacency(t *testing.T) {
	nodes, edges := testGraph()
	adj := Adjacency(nodes, edges)

	t.Run("records both orientations", func(t *testing.T) {
		if len(adj["u2"]) != 2 {
			t.Errorf("expected u2 to have 2 neighbors, got %v", adj["u2"])
		}
		if len(adj["u1"]) != 1 || adj["u1"][0] != "u2" {
			t.Errorf("expected u1 adjacent to u2 only, got %v", adj["u1"])
		}
	})

	t.Run("isolated nodes are present with no neighbors", func(t *testing.T) {
		if neighbors, ok := adj["u5"]; !ok || len(neighbors) != 0 {
			t.Errorf("expected u5 present with no neighbors, got %v", neighbors)
		}
	})
}

func TestReachableWithin(t *testing.T) {
	nodes, edges := testGraph()
	adj := Adjacency(nodes, edges)

	tests := []struct {
		name    string
		degree  int
		want    int
	}{
		{"degree 0 is just root", 0, 1},
		{"degree 1 reaches direct friends", 1, 2},
		{"degree 2 reaches friends of friends", 2, 3},
		{"degree 3 covers the chain", 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReachableWithin(adj, "u1", tt.degree)
			if len(got) != tt.want {
				t.Errorf("expected %d reachable, got %d (%v)", tt.want, len(got), got)
			}
			if !got["u1"] {
				t.Error("expected root to be reachable")
			}
		})
	}

	t.Run("disconnected node is never reached", func(t *testing.T) {
		got := ReachableWithin(adj, "u1", 10)
		if got["u5"] {
			t.Error("expected u5 to be unreachable")
		}
	})
}

func TestShortestPath(t *testing.T) {
	nodes, edges := testGraph()
	adj := Adjacency(nodes, edges)

	t.Run("finds the chain", func(t *testing.T) {
		got := ShortestPath(adj, "u1", "u4")
		want := []string{"u1", "u2", "u3", "u4"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("trivial path to self", func(t *testing.T) {
		got := ShortestPath(adj, "u1", "u1")
		if !reflect.DeepEqual(got, []string{"u1"}) {
			t.Errorf("expected [u1], got %v", got)
		}
	})

	t.Run("no path returns nil", func(t *testing.T) {
		if got := ShortestPath(adj, "u1", "u5"); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
