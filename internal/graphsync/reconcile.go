package graphsync

import (
	"context"
	"log"

	"sociogram/internal/domain"
	"sociogram/internal/relay"
)

// Inbound reconciles a relay event into the local store. It must be
// idempotent under redelivery and tolerant of the sender's own echo:
// every path re-checks current state before mutating. Events that
// reference unknown ids are silent no-ops. Event names the engine does
// not own, such as presence, are ignored here.
func (e *Engine) Inbound(ctx context.Context, ev relay.Event) {
	switch ev.Name {
	case relay.EventFriendRequest:
		var p relay.FriendRequestPayload
		if err := ev.DecodePayload(&p); err != nil {
			log.Printf("Ignoring malformed friendRequest: %v", err)
			return
		}
		e.reconcileRequest(ctx, p)
	case relay.EventFriendRemove:
		var p relay.FriendRemovePayload
		if err := ev.DecodePayload(&p); err != nil {
			log.Printf("Ignoring malformed friendRemove: %v", err)
			return
		}
		e.reconcileRemove(ctx, p)
	}
}

func (e *Engine) reconcileRequest(ctx context.Context, p relay.FriendRequestPayload) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case p.Approved:
		// Replay the approver's transition: drop the pending request
		// and connect the pair. Both steps tolerate already-applied
		// state, so a duplicate delivery converges to the same result.
		if e.store.RemoveRequest(ctx, p.ID) {
			e.bus.Publish(Change{Kind: ChangeRequests, ID: p.ID})
		}
		e.connectPairLocked(ctx, p.From, p.To)
	case p.Declined:
		if e.store.RemoveRequest(ctx, p.ID) {
			e.bus.Publish(Change{Kind: ChangeRequests, ID: p.ID})
		}
	default:
		// A fresh proposal is only tracked by its addressee; requests
		// aimed at other viewers pass through untracked. The same
		// rejection rules as a local send apply, so both sides converge
		// no matter who observed the event first.
		if p.To != e.viewer {
			return
		}
		if e.store.HasEdge(p.From, p.To) {
			return
		}
		if e.store.AddRequest(ctx, domain.FriendRequest{ID: p.ID, From: p.From, To: p.To}) {
			e.bus.Publish(Change{Kind: ChangeRequests, ID: p.ID})
		}
	}
}

func (e *Engine) reconcileRemove(ctx context.Context, p relay.FriendRemovePayload) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.store.RemoveEdge(ctx, p.From, p.To) {
		e.bus.Publish(Change{Kind: ChangeEdges, ID: domain.PairKey(p.From, p.To)})
	}
}
