// Package repository defines the durable local storage interface for Sociogram.
//
// This package provides the blob storage abstraction the local state store
// mirrors its collections into. The actual implementation is in the sqlite
// subpackage.
//
// # Blob Model
//
// Storage is a flat namespace of keys to JSON blobs. Each key holds the whole
// serialized collection for one viewer (nodes, edges, or requests); every
// state transition overwrites the full blob. There is no versioning field and
// no migration path - a shape change requires wiping the key, which the store
// layer treats the same as a corrupted blob.
//
// # SQLite Implementation
//
// The sqlite implementation stores blobs in a single table using SQLite with
// WAL mode. Writes replace the row atomically, so readers never observe a
// partial blob.
package repository
