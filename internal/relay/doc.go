// Package relay implements the publish/subscribe transport connecting
// Sociogram clients.
//
// The server side (Hub) groups websocket connections into rooms: one global
// room that every joined client belongs to, plus arbitrary extra rooms for
// direct relationships. Envelopes are forwarded to room members other than
// the sender; the hub never inspects or stores graph payloads. Delivery is
// at-most-once: a slow client's messages are dropped rather than queued
// without bound.
//
// The client side (Client) is the only component translating between engine
// events and wire envelopes. It exposes the inbound side as a channel so the
// engine can be tested against a fake channel instead of a live socket.
package relay
