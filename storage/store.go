// Package storage persists an audit-log row for every batch a host.Host
// completes: size, per-phase durations, and outcome. It never persists
// in-flight item payloads — that would reintroduce the cross-restart
// state the host intentionally does not keep.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record matches the given batch ID.
var ErrNotFound = errors.New("storage: batch record not found")

// Store persists and queries batch audit records. Implementations must be
// safe for concurrent use — the host's observer hook fires from whichever
// goroutine drains the worker loop.
type Store interface {
	// Write appends one completed batch's audit record.
	Write(ctx context.Context, rec BatchRecord) error

	// Get retrieves the record for a specific batch ID, or ErrNotFound.
	Get(ctx context.Context, batchID string) (BatchRecord, error)

	// Recent returns up to limit records ordered newest first.
	Recent(ctx context.Context, limit int) ([]BatchRecord, error)

	// Close releases any underlying connection resources.
	Close() error
}

// NopStore discards every record. Used when storage is disabled
// (config.StorageConfig.Driver == "none").
type NopStore struct{}

func (NopStore) Write(context.Context, BatchRecord) error { return nil }

func (NopStore) Get(context.Context, string) (BatchRecord, error) {
	return BatchRecord{}, ErrNotFound
}

func (NopStore) Recent(context.Context, int) ([]BatchRecord, error) { return nil, nil }

func (NopStore) Close() error { return nil }
