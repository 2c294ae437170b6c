package graphsync

// ChangeKind names which collection a store transition touched
type ChangeKind string

const (
	ChangeNodes    ChangeKind = "nodes"
	ChangeEdges    ChangeKind = "edges"
	ChangeRequests ChangeKind = "requests"
)

// Change announces a store transition. ID carries the node id, pair
// key, or request id the transition touched.
type Change struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// ChangeBus fans store transitions out to subscribers, typically the
// layout engine and any UI refresh loop. Subscribe before the engine
// starts mutating; subscription is not synchronized against publishes.
type ChangeBus struct {
	subscribers []chan<- Change
}

// NewChangeBus creates an empty bus
func NewChangeBus() *ChangeBus {
	return &ChangeBus{
		subscribers: make([]chan<- Change, 0),
	}
}

// Subscribe adds a subscriber to receive change notifications
func (b *ChangeBus) Subscribe(ch chan<- Change) {
	b.subscribers = append(b.subscribers, ch)
}

// Publish sends a change to all subscribers
func (b *ChangeBus) Publish(c Change) {
	for _, ch := range b.subscribers {
		select {
		case ch <- c:
		default:
			// Subscriber is slow, skip
		}
	}
}
