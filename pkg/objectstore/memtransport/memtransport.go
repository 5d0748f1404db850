// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package memtransport is an in-memory objectstore.Transport used by every
// test in this module and by the cmd/daosbridge demo CLI. No Go binding for
// a real object-store client library exists in this environment; the
// concurrency, coalescing, and keyspace logic above the Transport interface
// is exercised identically whether the transport is this in-memory store or
// a real network client.
//
// Grounded on storage/teststore's in-memory KeyValueStore: a mutex-protected
// map, values cloned on read/write, and per-call counters for tests to
// assert against.
package memtransport

import (
	"context"
	"sync"

	"github.com/root-project/rntuple-daos/pkg/objectstore"
)

type objKey struct {
	hi, lo uint64
}

type recordKey struct {
	dkey objectstore.DistributionKey
	akey objectstore.AttributeKey
}

// CallCounts tracks how many times each Transport method has been invoked,
// for tests that assert on dispatch shape (e.g. "exactly one vectored
// fetch").
type CallCounts struct {
	ConnectPool   int
	OpenContainer int
	OpenObject    int
	Fetch         int
	Update        int
	InitQueue     int
}

// Transport is an in-memory implementation of objectstore.Transport.
type Transport struct {
	mu         sync.Mutex
	pools      map[string]bool
	containers map[string]bool // "poolLabel/containerLabel"
	objects    map[objKey]map[recordKey][]byte
	Calls      CallCounts
}

// New creates an empty in-memory transport.
func New() *Transport {
	return &Transport{
		pools:      make(map[string]bool),
		containers: make(map[string]bool),
		objects:    make(map[objKey]map[recordKey][]byte),
	}
}

func containerKey(pool, container string) string { return pool + "/" + container }

// ConnectPool marks label as connected.
func (t *Transport) ConnectPool(_ context.Context, label string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls.ConnectPool++
	t.pools[label] = true
	return nil
}

// DisconnectPool marks label as disconnected.
func (t *Transport) DisconnectPool(_ context.Context, label string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pools, label)
	return nil
}

// OpenContainer creates (if requested) and opens a container, reporting
// whether it already existed.
func (t *Transport) OpenContainer(_ context.Context, poolLabel, containerLabel string, create bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls.OpenContainer++
	key := containerKey(poolLabel, containerLabel)
	existed := t.containers[key]
	if !existed {
		if !create {
			return false, objectstore.Error.New("container %s does not exist", key)
		}
		t.containers[key] = true
	}
	return existed, nil
}

// CloseContainer is a no-op for the in-memory transport (no handle to
// release).
func (t *Transport) CloseContainer(_ context.Context, _, _ string) error { return nil }

// GenerateOID completes oid's reserved bits for cid, mirroring the real
// library's id-generator.
func (t *Transport) GenerateOID(oid objectstore.ObjectID, cid objectstore.ObjectClass) objectstore.ObjectID {
	if cid.IsUnknown() {
		return oid
	}
	hi := oid.Hi &^ (uint64(0xFFFF) << objectstore.ClassShift)
	hi |= uint64(cid.ID()) << objectstore.ClassShift
	return objectstore.NewObjectID(hi, oid.Lo)
}

// InitQueue is a no-op: the in-memory transport needs no queue resources of
// its own (objectstore.EventQueue models the queue entirely in Go).
func (t *Transport) InitQueue(_ context.Context, _ string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls.InitQueue++
	return nil
}

// DestroyQueue is a no-op, matching InitQueue.
func (t *Transport) DestroyQueue(_ context.Context, _ string) error { return nil }

// OpenObject opens a transient in-memory object reference. Objects are
// cheap: there is no backing resource to release other than bookkeeping.
func (t *Transport) OpenObject(_ context.Context, poolLabel, containerLabel string, oid objectstore.ObjectID) (objectstore.ObjectRef, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Calls.OpenObject++
	key := objKey{oid.Hi, oid.Lo}
	if _, ok := t.objects[key]; !ok {
		t.objects[key] = make(map[recordKey][]byte)
	}
	return &objectRef{t: t, key: key}, nil
}

// objectRef is a transient reference to one in-memory object.
type objectRef struct {
	t   *Transport
	key objKey
}

// Fetch reads every (dkey, akey) addressed by iods into sgl, in order,
// filling in the size the store found for each.
func (r *objectRef) Fetch(_ context.Context, dkey objectstore.DistributionKey, iods []objectstore.IODescriptor, sgl []objectstore.IOVec) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.Calls.Fetch++
	records := r.t.objects[r.key]
	for i, iod := range iods {
		rk := recordKey{dkey: dkey, akey: iod.AttributeKey}
		stored, ok := records[rk]
		if !ok {
			return objectstore.Error.New("fetch: no such record (dkey=%d akey=%d)", dkey, iod.AttributeKey)
		}
		n := copy(sgl[i].Buffer, stored)
		if n < len(stored) {
			return objectstore.Error.New("fetch: destination buffer too small for akey %d", iod.AttributeKey)
		}
		iods[i].Length = uint64(len(stored))
	}
	return nil
}

// Update writes every (dkey, akey) addressed by iods from sgl, in order.
func (r *objectRef) Update(_ context.Context, dkey objectstore.DistributionKey, iods []objectstore.IODescriptor, sgl []objectstore.IOVec) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	r.t.Calls.Update++
	records := r.t.objects[r.key]
	for i, iod := range iods {
		rk := recordKey{dkey: dkey, akey: iod.AttributeKey}
		buf := make([]byte, len(sgl[i].Buffer))
		copy(buf, sgl[i].Buffer)
		records[rk] = buf
	}
	return nil
}

// Close is a no-op; the in-memory transport has no per-open resource.
func (r *objectRef) Close(_ context.Context) error { return nil }
