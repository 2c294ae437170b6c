// Package store keeps a client's working copy of the social graph in
// memory and mirrors it to durable blob storage after every mutation.
//
// The store is deliberately unsynchronized: the sync engine owns it and
// serializes all access through its event loop. Persistence is
// best-effort. A write failure is logged and the in-memory state stays
// authoritative; on the next load a stale or unreadable mirror falls
// back to the bootstrap seed rather than failing startup.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"sociogram/internal/domain"
	"sociogram/internal/repository"
)

const (
	keyNodesPrefix    = "sociogram_nodes"
	keyEdgesPrefix    = "sociogram_edges"
	keyRequestsPrefix = "sociogram_requests"
)

// Store holds one viewer's graph fragment backed by a blob repository.
type Store struct {
	repo   repository.BlobRepository
	viewer string
	seed   domain.Fragment

	nodes    []domain.Node
	edges    []domain.Edge
	requests []domain.FriendRequest
}

// New creates a store for the given viewer. An empty viewer scopes the
// mirror keys globally, which matches a single-profile deployment. The
// seed is used whenever a mirrored collection is missing or unreadable.
func New(repo repository.BlobRepository, viewer string, seed domain.Fragment) *Store {
	return &Store{repo: repo, viewer: viewer, seed: seed}
}

func (s *Store) key(prefix string) string {
	if s.viewer == "" {
		return prefix
	}
	return prefix + "_" + s.viewer
}

// Load populates the in-memory state from the blob mirror. Collections
// that are absent or fail to decode are replaced by the seed; Load never
// fails because of mirror contents.
func (s *Store) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.nodes = loadCollection(ctx, s.repo, s.key(keyNodesPrefix), s.seed.Nodes)
	s.edges = loadCollection(ctx, s.repo, s.key(keyEdgesPrefix), s.seed.Edges)
	s.requests = loadCollection(ctx, s.repo, s.key(keyRequestsPrefix), s.seed.Requests)
	return nil
}

func loadCollection[T any](ctx context.Context, repo repository.BlobRepository, key string, seed []T) []T {
	fallback := append([]T(nil), seed...)

	data, err := repo.Get(ctx, key)
	if err != nil {
		log.Printf("Failed to read %s, using seed: %v", key, err)
		return fallback
	}
	if data == nil {
		return fallback
	}

	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("Discarding corrupt blob %s, using seed: %v", key, err)
		return fallback
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// Nodes returns a copy of the node collection.
func (s *Store) Nodes() []domain.Node {
	return append([]domain.Node(nil), s.nodes...)
}

// Edges returns a copy of the edge collection.
func (s *Store) Edges() []domain.Edge {
	return append([]domain.Edge(nil), s.edges...)
}

// Requests returns a copy of the pending friend requests.
func (s *Store) Requests() []domain.FriendRequest {
	return append([]domain.FriendRequest(nil), s.requests...)
}

// Node looks up a node by id. Returns nil if absent.
func (s *Store) Node(id string) *domain.Node {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			n := s.nodes[i]
			return &n
		}
	}
	return nil
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	return s.Node(id) != nil
}

// HasEdge reports whether the pair is connected, in either orientation.
func (s *Store) HasEdge(a, b string) bool {
	for _, e := range s.edges {
		if e.SamePair(a, b) {
			return true
		}
	}
	return false
}

// Request looks up a pending friend request by id. Returns nil if absent.
func (s *Store) Request(id string) *domain.FriendRequest {
	for i := range s.requests {
		if s.requests[i].ID == id {
			r := s.requests[i]
			return &r
		}
	}
	return nil
}

// HasPendingRequest reports whether any request joins the pair, in
// either direction.
func (s *Store) HasPendingRequest(a, b string) bool {
	for _, r := range s.requests {
		if (r.From == a && r.To == b) || (r.From == b && r.To == a) {
			return true
		}
	}
	return false
}

// PutNode inserts the node, or replaces it when the id already exists,
// and mirrors the collection.
func (s *Store) PutNode(ctx context.Context, n domain.Node) {
	for i := range s.nodes {
		if s.nodes[i].ID == n.ID {
			s.nodes[i] = n
			s.persist(ctx, s.key(keyNodesPrefix), s.nodes)
			return
		}
	}
	s.nodes = append(s.nodes, n)
	s.persist(ctx, s.key(keyNodesPrefix), s.nodes)
}

// RemoveNode deletes the node and every edge or request touching it.
// A missing id is a no-op.
func (s *Store) RemoveNode(ctx context.Context, id string) {
	kept := s.nodes[:0]
	found := false
	for _, n := range s.nodes {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return
	}
	s.nodes = kept
	s.persist(ctx, s.key(keyNodesPrefix), s.nodes)

	edges := s.edges[:0]
	for _, e := range s.edges {
		if e.Touches(id) {
			continue
		}
		edges = append(edges, e)
	}
	s.edges = edges
	s.persist(ctx, s.key(keyEdgesPrefix), s.edges)

	reqs := s.requests[:0]
	for _, r := range s.requests {
		if r.From == id || r.To == id {
			continue
		}
		reqs = append(reqs, r)
	}
	s.requests = reqs
	s.persist(ctx, s.key(keyRequestsPrefix), s.requests)
}

// AddEdge connects the pair unless it already is, in either
// orientation, and mirrors the collection. Reports whether the edge was
// actually added.
func (s *Store) AddEdge(ctx context.Context, e domain.Edge) bool {
	if s.HasEdge(e.From, e.To) {
		return false
	}
	s.edges = append(s.edges, e)
	s.persist(ctx, s.key(keyEdgesPrefix), s.edges)
	return true
}

// RemoveEdge disconnects the pair, matching either orientation.
// Reports whether an edge was removed.
func (s *Store) RemoveEdge(ctx context.Context, a, b string) bool {
	kept := s.edges[:0]
	removed := false
	for _, e := range s.edges {
		if e.SamePair(a, b) {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		return false
	}
	s.edges = kept
	s.persist(ctx, s.key(keyEdgesPrefix), s.edges)
	return true
}

// AddRequest appends the request unless one with the same id is already
// pending. Reports whether the request was actually added.
func (s *Store) AddRequest(ctx context.Context, r domain.FriendRequest) bool {
	if s.Request(r.ID) != nil {
		return false
	}
	s.requests = append(s.requests, r)
	s.persist(ctx, s.key(keyRequestsPrefix), s.requests)
	return true
}

// RemoveRequest drops the request by id. A missing id is a no-op.
// Reports whether a request was removed.
func (s *Store) RemoveRequest(ctx context.Context, id string) bool {
	kept := s.requests[:0]
	removed := false
	for _, r := range s.requests {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return false
	}
	s.requests = kept
	s.persist(ctx, s.key(keyRequestsPrefix), s.requests)
	return true
}

// Fragment returns the full state as a portable fragment.
func (s *Store) Fragment() domain.Fragment {
	return domain.Fragment{
		Nodes:    s.Nodes(),
		Edges:    s.Edges(),
		Requests: s.Requests(),
	}
}

// Flush mirrors all three collections at once, regardless of what
// changed. Useful after a bulk import.
func (s *Store) Flush(ctx context.Context) {
	s.persist(ctx, s.key(keyNodesPrefix), s.nodes)
	s.persist(ctx, s.key(keyEdgesPrefix), s.edges)
	s.persist(ctx, s.key(keyRequestsPrefix), s.requests)
}

func (s *Store) persist(ctx context.Context, key string, collection interface{}) {
	data, err := json.Marshal(collection)
	if err != nil {
		log.Printf("Failed to encode %s: %v", key, err)
		return
	}
	if err := s.repo.Put(ctx, key, data); err != nil {
		log.Printf("Failed to mirror %s: %v", key, err)
	}
}

// Reset discards the mirror and the in-memory state, reverting to the
// seed. Primarily for operator tooling.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{s.key(keyNodesPrefix), s.key(keyEdgesPrefix), s.key(keyRequestsPrefix)} {
		if err := s.repo.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return s.Load(ctx)
}
