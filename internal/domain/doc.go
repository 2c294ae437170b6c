// Package domain defines the core domain types for the Sociogram shared social graph.
//
// This package contains the fundamental entities and value objects that represent
// the graph concepts: people (nodes), friendships (edges), pending friend
// requests, and ephemeral presence.
//
// # Core Types
//
// Node represents a person with contact fields, an access role, a profile
// visibility setting, and a derived 3D position used only for visualization.
//
// Edge represents a symmetric friendship between two nodes. An edge is an
// unordered pair: (a,b) and (b,a) are the same relationship, and at most one
// edge exists per pair.
//
// FriendRequest represents a directional, pending proposal to create an Edge.
// Its identifier is derived deterministically from the (from,to) pair so that
// retries and relay redeliveries collapse onto the same request.
//
// PresenceEntry records which node a user is currently focused on. It is
// rebuilt from the latest event per user and never persisted.
//
// # Design Principles
//
// - Immutable value objects where possible
// - No database or external dependencies
// - Pure domain logic without infrastructure concerns
// - Closed variant types for role and visibility instead of ad hoc fields
package domain
