// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

import (
	"context"
	"sync"
)

var (
	globalInitOnce sync.Once
	globalInitErr  error
	globalRefs     int
	globalMu       sync.Mutex
)

// globalAcquire runs the process-wide init once, when the first pool is
// created, matching the real library's requirement that a global init call
// precede any pool use, and counts the live pools. No fini runs when that
// count returns to zero; the init stays in effect until process exit.
func globalAcquire() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalInitOnce.Do(func() {
		// A real binding would call its library-wide init function here.
		globalInitErr = nil
	})
	globalRefs++
	return globalInitErr
}

func globalRelease() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalRefs--
}

// Pool provides access to containers in a specific object-store pool. It is
// connected on construction and disconnected on Close; it owns the event
// queue shared by every container opened against it.
type Pool struct {
	label     string
	transport Transport
	queue     EventQueue
}

// ConnectPool connects to the pool identified by label and initializes its
// event queue.
func ConnectPool(ctx context.Context, t Transport, label string) (*Pool, error) {
	if err := globalAcquire(); err != nil {
		return nil, err
	}
	if err := t.ConnectPool(ctx, label); err != nil {
		globalRelease()
		return nil, newStoreErr(ErrPoolConnectFailed, -1)
	}
	p := &Pool{label: label, transport: t}
	if err := t.InitQueue(ctx, label); err != nil {
		_ = t.DisconnectPool(ctx, label)
		globalRelease()
		return nil, newStoreErr(ErrStorageUnavailable, -1)
	}
	if err := p.queue.Initialize(); err != nil {
		_ = t.DisconnectPool(ctx, label)
		globalRelease()
		return nil, err
	}
	return p, nil
}

// Label returns the pool's label.
func (p *Pool) Label() string { return p.label }

// Close disconnects the pool, releasing the process-wide reference it holds.
func (p *Pool) Close(ctx context.Context) error {
	defer globalRelease()
	if err := p.queue.Destroy(); err != nil {
		return err
	}
	if err := p.transport.DestroyQueue(ctx, p.label); err != nil {
		return err
	}
	return p.transport.DisconnectPool(ctx, p.label)
}
