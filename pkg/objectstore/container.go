// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

import (
	"context"
	"sync"

	"gopkg.in/spacemonkeygo/monkit.v2"
)

var mon = monkit.Package()

// RWOperation describes a single read or write to perform as part of a
// vectored (multi-object) request: one (oid, dkey, akey) triple and the
// buffer to read into or write from.
type RWOperation struct {
	OID    ObjectID
	Dkey   DistributionKey
	Akey   AttributeKey
	Buffer []byte
}

// Container provides read/write access to objects in a given container. It
// retains a shared reference to its pool so the pool outlives every
// container opened against it.
type Container struct {
	pool         *Pool
	label        string
	defaultClass ObjectClass
}

// OpenContainer opens (optionally creates) a labeled container in pool.
// Container creation tolerates exactly one soft error - "already exists" -
// and proceeds as if the open succeeded.
func OpenContainer(ctx context.Context, pool *Pool, label string, create bool, defaultClass ObjectClass) (c *Container, err error) {
	defer mon.Task()(&ctx)(&err)
	if _, err := pool.transport.OpenContainer(ctx, pool.label, label, create); err != nil {
		return nil, newStoreErr(ErrContainerOpenFailed, -1)
	}
	return &Container{pool: pool, label: label, defaultClass: defaultClass}, nil
}

// DefaultObjectClass returns the class used when callers do not specify one.
func (c *Container) DefaultObjectClass() ObjectClass { return c.defaultClass }

// SetDefaultObjectClass changes the class used when callers do not specify
// one.
func (c *Container) SetDefaultObjectClass(cid ObjectClass) { c.defaultClass = cid }

// Close closes the container.
func (c *Container) Close(ctx context.Context) error {
	return c.pool.transport.CloseContainer(ctx, c.pool.label, c.label)
}

// ReadSingleAkey reads exactly length bytes from (oid, dkey, akey) into
// buffer, using the container's default object class.
func (c *Container) ReadSingleAkey(ctx context.Context, buffer []byte, oid ObjectID, dkey DistributionKey, akey AttributeKey) error {
	return c.ReadSingleAkeyClass(ctx, buffer, oid, dkey, akey, c.defaultClass)
}

// ReadSingleAkeyClass is ReadSingleAkey with an explicit object class.
func (c *Container) ReadSingleAkeyClass(ctx context.Context, buffer []byte, oid ObjectID, dkey DistributionKey, akey AttributeKey, cid ObjectClass) (err error) {
	defer mon.Task()(&ctx)(&err)
	handle, err := OpenObjectHandle(ctx, c.pool.transport, c.pool.label, c.label, oid, cid)
	if err != nil {
		return err
	}
	defer func() { _ = handle.Close(ctx) }()
	req := NewSingleAkeyRequest(dkey, akey, buffer, nil)
	return handle.Fetch(ctx, &req)
}

// WriteSingleAkey writes buffer to (oid, dkey, akey), using the container's
// default object class.
func (c *Container) WriteSingleAkey(ctx context.Context, buffer []byte, oid ObjectID, dkey DistributionKey, akey AttributeKey) error {
	return c.WriteSingleAkeyClass(ctx, buffer, oid, dkey, akey, c.defaultClass)
}

// WriteSingleAkeyClass is WriteSingleAkey with an explicit object class.
func (c *Container) WriteSingleAkeyClass(ctx context.Context, buffer []byte, oid ObjectID, dkey DistributionKey, akey AttributeKey, cid ObjectClass) (err error) {
	defer mon.Task()(&ctx)(&err)
	handle, err := OpenObjectHandle(ctx, c.pool.transport, c.pool.label, c.label, oid, cid)
	if err != nil {
		return err
	}
	defer func() { _ = handle.Close(ctx) }()
	req := NewSingleAkeyRequest(dkey, akey, buffer, nil)
	return handle.Update(ctx, &req)
}

// objectOp is the capability handle dispatched per coalesced bucket: either
// (*ObjectHandle).Fetch or (*ObjectHandle).Update, chosen by ReadV/WriteV.
// This is a function value rather than an interface/inheritance hierarchy,
// matching the single operation the vectored routine actually needs.
type objectOp func(ctx context.Context, h *ObjectHandle, req *FetchUpdateRequest) error

func fetchOp(ctx context.Context, h *ObjectHandle, req *FetchUpdateRequest) error {
	return h.Fetch(ctx, req)
}

func updateOp(ctx context.Context, h *ObjectHandle, req *FetchUpdateRequest) error {
	return h.Update(ctx, req)
}

// ReadV performs a vectored read operation on (possibly) multiple objects,
// using the container's default object class.
func (c *Container) ReadV(ctx context.Context, ops []RWOperation) error {
	return c.ReadVClass(ctx, ops, c.defaultClass)
}

// ReadVClass is ReadV with an explicit object class applied to every bucket.
func (c *Container) ReadVClass(ctx context.Context, ops []RWOperation, cid ObjectClass) error {
	return c.vectorReadWrite(ctx, ops, cid, fetchOp)
}

// WriteV performs a vectored write operation on (possibly) multiple objects,
// using the container's default object class.
func (c *Container) WriteV(ctx context.Context, ops []RWOperation) error {
	return c.WriteVClass(ctx, ops, c.defaultClass)
}

// WriteVClass is WriteV with an explicit object class applied to every
// bucket.
func (c *Container) WriteVClass(ctx context.Context, ops []RWOperation, cid ObjectClass) error {
	return c.vectorReadWrite(ctx, ops, cid, updateOp)
}

// bucketKey identifies one coalesced (object, distribution-key) bucket.
type bucketKey struct {
	oid  ObjectID
	dkey DistributionKey
}

// vectorReadWrite implements the core coalescing + parent-barrier algorithm
// described in spec.md §4.3: operations sharing an (oid, dkey) are merged
// into a single multi-akey request; each bucket is dispatched against a
// child event tied to one parent; the parent barrier is launched only after
// every bucket has been dispatched; the caller then polls the parent to
// completion. Returns 0 (nil) on success, or the residual status otherwise.
//
// readV([]) / writeV([]) return nil immediately without touching the queue.
func (c *Container) vectorReadWrite(ctx context.Context, ops []RWOperation, cid ObjectClass, fn objectOp) (err error) {
	defer mon.Task()(&ctx)(&err)
	if len(ops) == 0 {
		return nil
	}

	order := make([]bucketKey, 0, len(ops))
	akeys := make(map[bucketKey][]AttributeKey, len(ops))
	buffers := make(map[bucketKey][][]byte, len(ops))
	for _, op := range ops {
		k := bucketKey{oid: op.OID, dkey: op.Dkey}
		if _, seen := akeys[k]; !seen {
			order = append(order, k)
		}
		akeys[k] = append(akeys[k], op.Akey)
		buffers[k] = append(buffers[k], op.Buffer)
	}

	parent := c.pool.queue.ReserveEvent(nil)

	type dispatched struct {
		handle *ObjectHandle
		child  *EventHandle
	}
	handles := make([]dispatched, 0, len(order))

	var wg sync.WaitGroup
	for _, k := range order {
		handle, err := OpenObjectHandle(ctx, c.pool.transport, c.pool.label, c.label, k.oid, cid)
		if err != nil {
			// Buckets dispatched before this one are still in flight; wait for
			// them, then release every event and handle reserved so far
			// rather than leaking queue slots or orphaning goroutines.
			wg.Wait()
			for _, d := range handles {
				_ = c.pool.queue.FinalizeEvent(d.child)
				_ = d.handle.Close(ctx)
			}
			_ = c.pool.queue.FinalizeEvent(parent)
			return err
		}
		child := c.pool.queue.ReserveEvent(parent)
		req := NewMultiAkeyRequest(k.dkey, akeys[k], buffers[k], child)
		handles = append(handles, dispatched{handle: handle, child: child})

		wg.Add(1)
		go func(h *ObjectHandle, req FetchUpdateRequest, child *EventHandle) {
			defer wg.Done()
			callErr := fn(ctx, h, &req)
			code := 0
			if callErr != nil {
				code = -1
			}
			c.pool.queue.complete(child, code)
		}(handle, req, child)
	}

	if err := c.pool.queue.LaunchParentBarrier(parent); err != nil {
		return err
	}
	pollErr := c.pool.queue.PollToCompletion(ctx, parent)
	wg.Wait()
	for _, d := range handles {
		_ = c.pool.queue.FinalizeEvent(d.child)
		_ = d.handle.Close(ctx)
	}
	return pollErr
}
