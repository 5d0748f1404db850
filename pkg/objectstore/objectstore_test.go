// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/root-project/rntuple-daos/pkg/objectstore"
	"github.com/root-project/rntuple-daos/pkg/objectstore/memtransport"
)

func openTestContainer(t *testing.T, transport *memtransport.Transport) (*objectstore.Pool, *objectstore.Container) {
	t.Helper()
	ctx := context.Background()
	pool, err := objectstore.ConnectPool(ctx, transport, "pool-a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close(ctx) })

	cid, err := objectstore.ObjectClassByName("OC_SX")
	require.NoError(t, err)
	container, err := objectstore.OpenContainer(ctx, pool, "container-a", true, cid)
	require.NoError(t, err)
	return pool, container
}

func TestParseURIValid(t *testing.T) {
	u, err := objectstore.ParseURI("daos://my-pool/my-container")
	require.NoError(t, err)
	require.Equal(t, "my-pool", u.PoolLabel)
	require.Equal(t, "my-container", u.ContainerLabel)
}

func TestParseURIInvalid(t *testing.T) {
	_, err := objectstore.ParseURI("not-a-uri")
	require.Error(t, err)
	var storeErr *objectstore.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, objectstore.ErrInvalidURI, storeErr.Kind)
}

func TestObjectClassByNameUnknown(t *testing.T) {
	_, err := objectstore.ObjectClassByName("OC_DOES_NOT_EXIST")
	require.Error(t, err)
}

func TestVectorReadWriteEmptyIsNoop(t *testing.T) {
	transport := memtransport.New()
	_, container := openTestContainer(t, transport)

	require.NoError(t, container.WriteV(context.Background(), nil))
	require.NoError(t, container.ReadV(context.Background(), nil))
	require.Equal(t, 0, transport.Calls.OpenObject)
}

func TestVectorWriteCoalescesSameBucket(t *testing.T) {
	transport := memtransport.New()
	_, container := openTestContainer(t, transport)

	oid := objectstore.NewObjectID(1, 1)
	ops := []objectstore.RWOperation{
		{OID: oid, Dkey: 10, Akey: 1, Buffer: []byte("alpha")},
		{OID: oid, Dkey: 10, Akey: 2, Buffer: []byte("beta")},
		{OID: oid, Dkey: 10, Akey: 3, Buffer: []byte("gamma")},
	}
	require.NoError(t, container.WriteV(context.Background(), ops))

	require.Equal(t, 1, transport.Calls.OpenObject)
	require.Equal(t, 1, transport.Calls.Update)
}

func TestVectorReadWriteRoundTrip(t *testing.T) {
	transport := memtransport.New()
	_, container := openTestContainer(t, transport)
	ctx := context.Background()

	oidA := objectstore.NewObjectID(1, 0)
	oidB := objectstore.NewObjectID(2, 0)
	writeOps := []objectstore.RWOperation{
		{OID: oidA, Dkey: 1, Akey: 1, Buffer: []byte("hello")},
		{OID: oidA, Dkey: 1, Akey: 2, Buffer: []byte("world")},
		{OID: oidB, Dkey: 2, Akey: 1, Buffer: []byte("other-object")},
	}
	require.NoError(t, container.WriteV(ctx, writeOps))
	// Two distinct (oid, dkey) buckets dispatched: oidA/dkey1 and oidB/dkey2.
	require.Equal(t, 2, transport.Calls.OpenObject)

	readBuf1 := make([]byte, len("hello"))
	readBuf2 := make([]byte, len("world"))
	readBuf3 := make([]byte, len("other-object"))
	readOps := []objectstore.RWOperation{
		{OID: oidA, Dkey: 1, Akey: 1, Buffer: readBuf1},
		{OID: oidA, Dkey: 1, Akey: 2, Buffer: readBuf2},
		{OID: oidB, Dkey: 2, Akey: 1, Buffer: readBuf3},
	}
	require.NoError(t, container.ReadV(ctx, readOps))
	require.Equal(t, "hello", string(readBuf1))
	require.Equal(t, "world", string(readBuf2))
	require.Equal(t, "other-object", string(readBuf3))
}

func TestSingleAkeyRoundTrip(t *testing.T) {
	transport := memtransport.New()
	_, container := openTestContainer(t, transport)
	ctx := context.Background()

	oid := objectstore.NewObjectID(5, 5)
	require.NoError(t, container.WriteSingleAkey(ctx, []byte("payload"), oid, 1, 1))

	dst := make([]byte, len("payload"))
	require.NoError(t, container.ReadSingleAkey(ctx, dst, oid, 1, 1))
	require.Equal(t, "payload", string(dst))
}

func TestReadVPropagatesFailureAsResidual(t *testing.T) {
	transport := memtransport.New()
	_, container := openTestContainer(t, transport)
	ctx := context.Background()

	// No record has ever been written at this (oid, dkey, akey): fetch must
	// fail, and the vectored read must surface it rather than hang.
	missing := []objectstore.RWOperation{
		{OID: objectstore.NewObjectID(99, 99), Dkey: 1, Akey: 1, Buffer: make([]byte, 4)},
	}
	err := container.ReadV(ctx, missing)
	require.Error(t, err)
}
