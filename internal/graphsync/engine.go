package graphsync

import (
	"context"
	"log"
	"sync"

	"github.com/oklog/ulid/v2"

	"sociogram/internal/domain"
	"sociogram/internal/relay"
	"sociogram/internal/store"
)

const outboundBuffer = 64

// Persister is the remote persistence surface for friendship state.
// Calls are best-effort: a failure is logged and the optimistic local
// state stands.
type Persister interface {
	SendFriendRequest(ctx context.Context, from, to string) error
	AcceptFriendRequest(ctx context.Context, id, from, to string) error
	DeclineFriendRequest(ctx context.Context, id, from, to string) error
}

// Geocoder resolves a postal address to coordinates. Used to enrich a
// node asynchronously after an address edit.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.GeoPoint, error)
}

// Options configures an Engine. Store and Viewer are required;
// Persister and Geocoder may be nil, which disables the corresponding
// remote calls without changing local behavior.
type Options struct {
	Viewer    string
	Store     *store.Store
	Persister Persister
	Geocoder  Geocoder
}

// Engine applies local graph mutations optimistically, persists them
// remotely, and reconciles inbound relay events into the same store.
// All methods are safe for concurrent use; the engine serializes store
// access internally.
type Engine struct {
	mu       sync.Mutex
	viewer   string
	store    *store.Store
	persist  Persister
	geocoder Geocoder

	outbound chan relay.Event
	bus      *ChangeBus
}

// New creates an engine over the given store.
func New(opts Options) *Engine {
	return &Engine{
		viewer:   opts.Viewer,
		store:    opts.Store,
		persist:  opts.Persister,
		geocoder: opts.Geocoder,
		outbound: make(chan relay.Event, outboundBuffer),
		bus:      NewChangeBus(),
	}
}

// Outbound returns the channel of events the transport adapter should
// forward to the relay.
func (e *Engine) Outbound() <-chan relay.Event {
	return e.outbound
}

// Changes returns the bus that announces store transitions to
// interested consumers, such as the layout engine.
func (e *Engine) Changes() *ChangeBus {
	return e.bus
}

// Store exposes the underlying state for read access.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Snapshot returns a consistent copy of the full graph state.
func (e *Engine) Snapshot() domain.Fragment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Fragment()
}

// AddNode creates a node with a fresh id, appends it locally, and
// returns it. The position is left at the origin; the layout engine
// seeds unplaced nodes across the sphere on its next graph sync, which
// keeps placement a function of the whole node set rather than of
// insertion order. Profile creation flows through the persistence API
// separately; this path is local-only.
func (e *Engine) AddNode(ctx context.Context, label string, fields domain.NodeFields) domain.Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := domain.NewNode(ulid.Make().String(), label)
	n.Merge(fields)

	e.store.PutNode(ctx, *n)
	e.bus.Publish(Change{Kind: ChangeNodes, ID: n.ID})
	return *n
}

// AddEdge connects the pair locally. A duplicate in either orientation
// is a no-op. Direct edge creation does not notify peers; the
// peer-to-peer path goes through request and approval.
func (e *Engine) AddEdge(ctx context.Context, a, b string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addEdgeLocked(ctx, a, b)
}

func (e *Engine) addEdgeLocked(ctx context.Context, a, b string) bool {
	if !e.store.AddEdge(ctx, domain.NewEdge(a, b)) {
		return false
	}
	e.bus.Publish(Change{Kind: ChangeEdges, ID: domain.PairKey(a, b)})
	return true
}

// connectPairLocked turns the pair into friends and retires any request
// still pending between them. Cross-requests carry distinct ids, so an
// approval has to clear the mirror proposal too; an edge and a pending
// request never coexist.
func (e *Engine) connectPairLocked(ctx context.Context, from, to string) {
	e.addEdgeLocked(ctx, from, to)
	if !e.store.HasPendingRequest(from, to) {
		return
	}
	for _, id := range []string{domain.RequestID(from, to), domain.RequestID(to, from)} {
		if e.store.RemoveRequest(ctx, id) {
			e.bus.Publish(Change{Kind: ChangeRequests, ID: id})
		}
	}
}

// RemoveEdge disconnects the pair and announces the removal so peers
// drop it too. The event is emitted even when no local edge matched,
// since a peer may still hold one.
func (e *Engine) RemoveEdge(ctx context.Context, a, b string) {
	e.mu.Lock()
	if e.store.RemoveEdge(ctx, a, b) {
		e.bus.Publish(Change{Kind: ChangeEdges, ID: domain.PairKey(a, b)})
	}
	e.mu.Unlock()

	e.emit(relay.EventFriendRemove, relay.FriendRemovePayload{From: a, To: b})
}

// RemoveNode deletes the node along with every edge and request
// touching it. Each severed friendship is announced so peers drop
// their side too. An unknown id is a no-op.
func (e *Engine) RemoveNode(ctx context.Context, id string) {
	e.mu.Lock()
	if !e.store.HasNode(id) {
		e.mu.Unlock()
		return
	}
	var severed []domain.Edge
	for _, edge := range e.store.Edges() {
		if edge.Touches(id) {
			severed = append(severed, edge)
		}
	}
	e.store.RemoveNode(ctx, id)
	e.bus.Publish(Change{Kind: ChangeNodes, ID: id})
	for _, edge := range severed {
		e.bus.Publish(Change{Kind: ChangeEdges, ID: domain.PairKey(edge.From, edge.To)})
	}
	e.mu.Unlock()

	for _, edge := range severed {
		e.emit(relay.EventFriendRemove, relay.FriendRemovePayload{From: edge.From, To: edge.To})
	}
}

// SendFriendRequest proposes a friendship. Self-requests, pairs that
// are already connected, and duplicate pending proposals are silent
// no-ops. On success the request is persisted, stored, and announced.
func (e *Engine) SendFriendRequest(ctx context.Context, from, to string) {
	e.mu.Lock()
	if from == to || e.store.HasEdge(from, to) {
		e.mu.Unlock()
		return
	}
	id := domain.RequestID(from, to)
	if e.store.Request(id) != nil {
		e.mu.Unlock()
		return
	}
	if !e.store.AddRequest(ctx, domain.FriendRequest{ID: id, From: from, To: to}) {
		e.mu.Unlock()
		return
	}
	e.bus.Publish(Change{Kind: ChangeRequests, ID: id})
	e.mu.Unlock()

	if e.persist != nil {
		if err := e.persist.SendFriendRequest(ctx, from, to); err != nil {
			log.Printf("Failed to persist friend request %s: %v", id, err)
		}
	}
	e.emit(relay.EventFriendRequest, relay.FriendRequestPayload{ID: id, From: from, To: to})
}

// ApproveFriendRequest resolves a pending request into an edge and
// announces the transition so peers replay it. An unknown id is a
// no-op.
func (e *Engine) ApproveFriendRequest(ctx context.Context, id string) {
	e.mu.Lock()
	req := e.store.Request(id)
	if req == nil {
		e.mu.Unlock()
		return
	}
	e.store.RemoveRequest(ctx, id)
	e.bus.Publish(Change{Kind: ChangeRequests, ID: id})
	e.connectPairLocked(ctx, req.From, req.To)
	e.mu.Unlock()

	if e.persist != nil {
		if err := e.persist.AcceptFriendRequest(ctx, id, req.From, req.To); err != nil {
			log.Printf("Failed to persist approval of %s: %v", id, err)
		}
	}
	e.emit(relay.EventFriendRequest, relay.FriendRequestPayload{
		ID: id, From: req.From, To: req.To, Approved: true,
	})
}

// DeclineFriendRequest drops a pending request and announces the
// decline. An unknown id is a no-op.
func (e *Engine) DeclineFriendRequest(ctx context.Context, id string) {
	e.mu.Lock()
	req := e.store.Request(id)
	if req == nil {
		e.mu.Unlock()
		return
	}
	e.store.RemoveRequest(ctx, id)
	e.bus.Publish(Change{Kind: ChangeRequests, ID: id})
	e.mu.Unlock()

	if e.persist != nil {
		if err := e.persist.DeclineFriendRequest(ctx, id, req.From, req.To); err != nil {
			log.Printf("Failed to persist decline of %s: %v", id, err)
		}
	}
	e.emit(relay.EventFriendRequest, relay.FriendRequestPayload{
		ID: id, From: req.From, To: req.To, Declined: true,
	})
}

// UpdateNode merges the given fields into the node. A missing id is a
// no-op. An address edit triggers an asynchronous geocode lookup that
// calls back into UpdateNode with resolved coordinates; the lookup is
// enrichment only and its failure is logged, not surfaced.
func (e *Engine) UpdateNode(ctx context.Context, id string, fields domain.NodeFields) {
	e.mu.Lock()
	n := e.store.Node(id)
	if n == nil {
		e.mu.Unlock()
		return
	}
	n.Merge(fields)
	e.store.PutNode(ctx, *n)
	e.bus.Publish(Change{Kind: ChangeNodes, ID: id})
	e.mu.Unlock()

	if fields.Address != nil && *fields.Address != "" && e.geocoder != nil {
		go e.enrichGeo(ctx, id, *fields.Address)
	}
}

func (e *Engine) enrichGeo(ctx context.Context, id, address string) {
	geo, err := e.geocoder.Geocode(ctx, address)
	if err != nil {
		log.Printf("Failed to geocode %q for node %s: %v", address, id, err)
		return
	}
	if geo == nil {
		return
	}
	e.UpdateNode(ctx, id, domain.NodeFields{Geo: geo})
}

// VisibleNodes returns the nodes the viewer is allowed to see, applying
// each node's visibility against the current friendship graph.
func (e *Engine) VisibleNodes() []domain.Node {
	e.mu.Lock()
	defer e.mu.Unlock()

	nodes := e.store.Nodes()
	adj := domain.Adjacency(nodes, e.store.Edges())
	// One hop of reachability is exactly the friend set, plus the
	// viewer itself.
	friends := domain.ReachableWithin(adj, e.viewer, 1)

	visible := nodes[:0]
	for _, n := range nodes {
		isSelf := n.ID == e.viewer
		if n.Visibility.AllowsViewer(isSelf, !isSelf && friends[n.ID]) {
			visible = append(visible, n)
		}
	}
	return visible
}

// PathTo returns the node ids along a shortest friendship path from the
// viewer to the target, or nil if none exists.
func (e *Engine) PathTo(target string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	adj := domain.Adjacency(e.store.Nodes(), e.store.Edges())
	return domain.ShortestPath(adj, e.viewer, target)
}

// ImportFragment merges seed data into the store. Existing nodes are
// left untouched so a seed reload never clobbers live edits; edges and
// requests go through the usual dedup rules.
func (e *Engine) ImportFragment(ctx context.Context, f *domain.Fragment) {
	if f == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, n := range f.Nodes {
		if e.store.HasNode(n.ID) {
			continue
		}
		// An unplaced node stays at the origin until the layout
		// engine seeds it alongside the rest of the set.
		e.store.PutNode(ctx, n)
		e.bus.Publish(Change{Kind: ChangeNodes, ID: n.ID})
	}
	for _, edge := range f.Edges {
		e.addEdgeLocked(ctx, edge.From, edge.To)
	}
	for _, r := range f.Requests {
		if e.store.HasEdge(r.From, r.To) {
			continue
		}
		if e.store.AddRequest(ctx, r) {
			e.bus.Publish(Change{Kind: ChangeRequests, ID: r.ID})
		}
	}
}

// SetPosition overrides a node's derived layout position, typically
// after a relaxation tick or a manual drag. Position is view state and
// is mirrored with the node record.
func (e *Engine) SetPosition(ctx context.Context, id string, pos domain.Vec3) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.store.Node(id)
	if n == nil {
		return
	}
	n.Position = pos
	e.store.PutNode(ctx, *n)
}

// Flush mirrors the full state regardless of what changed. Run on
// shutdown so a mirror write that failed earlier gets one more chance.
func (e *Engine) Flush(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Flush(ctx)
}

// emit queues an event for the transport adapter. A full queue drops
// the event rather than blocking a mutation; the relay offers
// at-most-once delivery anyway.
func (e *Engine) emit(name string, payload interface{}) {
	ev, err := relay.NewEvent(name, payload)
	if err != nil {
		log.Printf("Failed to encode %s event: %v", name, err)
		return
	}
	select {
	case e.outbound <- ev:
	default:
		log.Printf("Outbound queue full, dropping %s event", name)
	}
}
