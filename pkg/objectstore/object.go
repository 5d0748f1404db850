// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

import "context"

// FetchUpdateRequest is a value-type bundle carrying everything one
// fetch/update call against an object needs: an owned copy of the
// distribution key, the attribute key(s) addressed, parallel scatter-gather
// and I/O-descriptor vectors, and an optional event for asynchronous
// dispatch.
//
// Invariants (see spec.md §3 FetchUpdateRequest invariants):
//   - len(Sgl) == len(Iods) always.
//   - For a single-akey request, len(Sgl) == len(Iods) == 1 and the iod's
//     Length equals the buffer's length.
//   - For a multi-akey request, Iods[i].AttributeKey addresses Sgl[i], a
//     single buffer whose length is Iods[i].Length.
//   - Event is non-nil iff the request is asynchronous.
type FetchUpdateRequest struct {
	Dkey  DistributionKey
	Iods  []IODescriptor
	Sgl   []IOVec
	Event *EventHandle
}

// NewSingleAkeyRequest builds a synchronous or asynchronous request
// addressing exactly one (dkey, akey).
func NewSingleAkeyRequest(dkey DistributionKey, akey AttributeKey, buf []byte, event *EventHandle) FetchUpdateRequest {
	return FetchUpdateRequest{
		Dkey:  dkey,
		Iods:  []IODescriptor{{AttributeKey: akey, Length: uint64(len(buf))}},
		Sgl:   []IOVec{{Buffer: buf}},
		Event: event,
	}
}

// NewMultiAkeyRequest builds a request coalescing several akeys that share
// one (oid, dkey) into a single fetch/update call. akeys and buffers must
// have equal length; buffers[i] is the sole scatter-gather buffer for
// akeys[i].
func NewMultiAkeyRequest(dkey DistributionKey, akeys []AttributeKey, buffers [][]byte, event *EventHandle) FetchUpdateRequest {
	iods := make([]IODescriptor, len(akeys))
	sgl := make([]IOVec, len(akeys))
	for i, akey := range akeys {
		iods[i] = IODescriptor{AttributeKey: akey, Length: uint64(len(buffers[i]))}
		sgl[i] = IOVec{Buffer: buffers[i]}
	}
	return FetchUpdateRequest{Dkey: dkey, Iods: iods, Sgl: sgl, Event: event}
}

// ObjectHandle provides low-level access to an object opened within a
// container.
type ObjectHandle struct {
	ref ObjectRef
}

// OpenObjectHandle opens oid within the container identified by
// (poolLabel, containerLabel), completing the reserved bits of oid first if
// cid is not ClassUnknown.
func OpenObjectHandle(ctx context.Context, t Transport, poolLabel, containerLabel string, oid ObjectID, cid ObjectClass) (*ObjectHandle, error) {
	if !cid.IsUnknown() {
		oid = t.GenerateOID(oid, cid)
	}
	ref, err := t.OpenObject(ctx, poolLabel, containerLabel, oid)
	if err != nil {
		return nil, newStoreErr(ErrObjectOpenFailed, -1)
	}
	return &ObjectHandle{ref: ref}, nil
}

// Fetch sets every record size in req to AnyLength, then issues a fetch;
// the store fills in the actual sizes found. Returns the store's status
// code verbatim (via err).
func (h *ObjectHandle) Fetch(ctx context.Context, req *FetchUpdateRequest) error {
	for i := range req.Iods {
		req.Iods[i].Length = AnyLength
	}
	return h.ref.Fetch(ctx, req.Dkey, req.Iods, req.Sgl)
}

// Update issues an unconditional update with the request's inputs.
func (h *ObjectHandle) Update(ctx context.Context, req *FetchUpdateRequest) error {
	return h.ref.Update(ctx, req.Dkey, req.Iods, req.Sgl)
}

// Close releases the object handle.
func (h *ObjectHandle) Close(ctx context.Context) error {
	return h.ref.Close(ctx)
}
