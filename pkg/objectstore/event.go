// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

import (
	"context"
	"sync"
	"sync/atomic"
)

// EventQueue is a completion queue: events are reserved from it, optionally
// tied to a parent as a child, and polled to completion. It models the real
// library's event-driven I/O without requiring a particular transport to be
// asynchronous itself - Container dispatches transport calls on goroutines
// and reports their completion back through the queue.
//
// The queue is not safe for concurrent mutation by multiple callers; the
// design assumes callers externally serialize calls to the same container
// or hold a container-scoped lock (see Container).
type EventQueue struct {
	mu          sync.Mutex
	initialized bool
	nextID      uint64
	outstanding map[uint64]*EventHandle
}

// Initialize creates the underlying queue.
func (q *EventQueue) Initialize() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.outstanding = make(map[uint64]*EventHandle)
	q.initialized = true
	return nil
}

// ReserveEvent attaches a new event to this queue, optionally as a child of
// parent. Child events inherit completion into the parent: the parent only
// completes once a barrier has been launched on it and every child it was
// given before the barrier has completed.
func (q *EventQueue) ReserveEvent(parent *EventHandle) *EventHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	e := &EventHandle{id: q.nextID, parent: parent}
	if parent != nil {
		parent.children++
	}
	q.outstanding[e.id] = e
	return e
}

// FinalizeEvent releases e. Must only be called after completion has been
// observed (PollToCompletion does this internally).
func (q *EventQueue) FinalizeEvent(e *EventHandle) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.outstanding, e.id)
	return nil
}

// LaunchParentBarrier declares p as a barrier gating on its already-reserved
// children. After this call no further children may be attached to p.
func (q *EventQueue) LaunchParentBarrier(p *EventHandle) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	p.barrier = true
	if p.children == 0 {
		p.done = true
	}
	return nil
}

// complete marks e as finished with the given status code and, if e has a
// parent, decrements the parent's outstanding-child count; the parent
// transitions to done once its barrier has been launched and no children
// remain.
func (q *EventQueue) complete(e *EventHandle, code int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e.done = true
	e.code = code
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children--
	if code != 0 && p.code == 0 {
		p.code = code
	}
	if p.barrier && p.children == 0 {
		p.done = true
	}
}

// test is a non-blocking check of whether e has completed.
func (q *EventQueue) test(e *EventHandle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return e.done
}

// PollToCompletion busy-waits on e using a non-blocking test call until
// completion, then finalizes it. Policy: a tight spin on the zero-timeout
// test, matching an event-driven library. The spin is unbounded; it counts
// its iterations and, if ctx is cancelled first, returns ctx.Err() without
// finalizing e.
func (q *EventQueue) PollToCompletion(ctx context.Context, e *EventHandle) error {
	var spins uint64
	for {
		if q.test(e) {
			code := e.code
			_ = q.FinalizeEvent(e)
			if code != 0 {
				return newStoreErr(ErrVectoredReadIncomplete, code)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		atomic.AddUint64(&spins, 1)
	}
}

// Destroy tears down the queue. Fails if there are outstanding events.
func (q *EventQueue) Destroy() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.outstanding) != 0 {
		return newStoreErr(ErrStorageUnavailable, -1)
	}
	q.initialized = false
	return nil
}
