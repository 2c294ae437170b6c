package api

import "context"

// FriendshipPersister adapts the Client to the synchronization
// engine's persistence surface. The engine passes the deterministic
// request id for logging symmetry, but the service keys friendships by
// the (from,to) pair, so the id is not sent over the wire.
type FriendshipPersister struct {
	Client *Client
}

func (p FriendshipPersister) SendFriendRequest(ctx context.Context, from, to string) error {
	return p.Client.SendFriendRequest(ctx, from, to)
}

func (p FriendshipPersister) AcceptFriendRequest(ctx context.Context, _, from, to string) error {
	return p.Client.AcceptFriendRequest(ctx, from, to)
}

func (p FriendshipPersister) DeclineFriendRequest(ctx context.Context, _, from, to string) error {
	return p.Client.DeclineFriendRequest(ctx, from, to)
}
