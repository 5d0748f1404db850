// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

import "context"

// DistributionKey and AttributeKey are the fixed 64-bit integer keys used by
// every object-store record in this design.
type (
	DistributionKey = uint64
	AttributeKey    = uint64
)

// AnyLength marks an I/O descriptor's record size as unknown, to be filled
// in by the store on fetch.
const AnyLength = ^uint64(0)

// IOVec is a single scatter-gather buffer.
type IOVec struct {
	Buffer []byte
}

// IODescriptor describes one (dkey, akey) record addressed by a single
// fetch/update. Length is either the written length (update) or AnyLength
// (fetch, where the store reports the size it found).
type IODescriptor struct {
	AttributeKey AttributeKey
	Length       uint64
}

// EventHandle is an opaque token reserved from an EventQueue. It may have at
// most one parent; a parent event completes only once a barrier has been
// launched on it and all of its children have completed.
type EventHandle struct {
	id       uint64
	parent   *EventHandle
	children int
	done     bool
	code     int
	barrier  bool
}

// Transport is the pluggable boundary standing in for the real object-store
// client library (e.g. libdaos). Network transport details are explicitly a
// non-goal of this design; everything above this interface (coalescing,
// barriers, keyspace mapping, page framing) is implemented in Go and does
// not change when Transport is swapped for a real binding.
type Transport interface {
	// ConnectPool connects to a pool by label.
	ConnectPool(ctx context.Context, label string) error
	// DisconnectPool disconnects a previously connected pool.
	DisconnectPool(ctx context.Context, label string) error

	// OpenContainer opens (optionally creating) a labeled container in a
	// pool. Returns true if the container already existed.
	OpenContainer(ctx context.Context, poolLabel, containerLabel string, create bool) (alreadyExisted bool, err error)
	// CloseContainer closes a previously opened container.
	CloseContainer(ctx context.Context, poolLabel, containerLabel string) error

	// GenerateOID completes the reserved bits of oid for the given class.
	GenerateOID(oid ObjectID, cid ObjectClass) ObjectID

	// OpenObject opens an object for read-write access within a container.
	OpenObject(ctx context.Context, poolLabel, containerLabel string, oid ObjectID) (ObjectRef, error)

	// InitQueue creates a completion queue for a pool.
	InitQueue(ctx context.Context, poolLabel string) error
	// DestroyQueue destroys a pool's completion queue.
	DestroyQueue(ctx context.Context, poolLabel string) error
}

// ObjectRef is a transport-level handle to an open object. Fetch/Update are
// synchronous from the transport's point of view; asynchrony is layered on
// top by EventQueue/Container using goroutines plus EventHandle completion,
// matching the real library's event-driven model where requests dispatched
// against an event complete independently of the calling thread.
type ObjectRef interface {
	// Fetch reads dkey/akeys described by iods into sgl, in order. It
	// returns the negative-style status via err (nil on success) and must
	// fill each IODescriptor.Length with the size found in the store.
	Fetch(ctx context.Context, dkey DistributionKey, iods []IODescriptor, sgl []IOVec) error
	// Update writes dkey/akeys described by iods from sgl, in order.
	Update(ctx context.Context, dkey DistributionKey, iods []IODescriptor, sgl []IOVec) error
	// Close releases the object handle.
	Close(ctx context.Context) error
}
