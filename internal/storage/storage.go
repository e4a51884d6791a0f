package storage

import (
	"context"
	"time"
)

// Package storage contains object storage abstractions for S3-compatible backends.
// Process diagrams live here; the database only keeps their keys.

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Storage is a reusable, S3-compatible object storage client interface.
type Storage interface {
	// Copy duplicates the object at srcKey to dstKey server-side.
	Copy(ctx context.Context, srcKey, dstKey string) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
