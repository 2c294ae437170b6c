package repository

import (
	"context"
)

// BlobRepository defines the interface for durable local blob storage
type BlobRepository interface {
	// Get returns the blob stored under key, or nil if the key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous blob atomically
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the blob under key; absent keys are not an error
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys with the given prefix
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources
	Close() error
}
