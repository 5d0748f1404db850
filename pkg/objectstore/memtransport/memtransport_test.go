// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package memtransport_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/root-project/rntuple-daos/pkg/objectstore"
	"github.com/root-project/rntuple-daos/pkg/objectstore/memtransport"
)

func TestGenerateOIDEncodesClassBits(t *testing.T) {
	transport := memtransport.New()
	cid, err := objectstore.ObjectClassByName("OC_RP_2")
	require.NoError(t, err)

	oid := objectstore.NewObjectID(0, 7)
	completed := transport.GenerateOID(oid, cid)

	require.Equal(t, uint64(7), completed.Lo)
	require.Equal(t, cid.ID(), uint16(completed.Hi>>objectstore.ClassShift))
}

func TestGenerateOIDPassesThroughUnknownClass(t *testing.T) {
	transport := memtransport.New()
	oid := objectstore.NewObjectID(42, 7)
	require.Equal(t, oid, transport.GenerateOID(oid, objectstore.ClassUnknown))
}

func TestOpenContainerReportsExistence(t *testing.T) {
	transport := memtransport.New()
	ctx := context.Background()

	existed, err := transport.OpenContainer(ctx, "pool", "container", true)
	require.NoError(t, err)
	require.False(t, existed)

	existed, err = transport.OpenContainer(ctx, "pool", "container", false)
	require.NoError(t, err)
	require.True(t, existed)
}

func TestOpenContainerFailsWithoutCreateWhenMissing(t *testing.T) {
	transport := memtransport.New()
	_, err := transport.OpenContainer(context.Background(), "pool", "missing", false)
	require.Error(t, err)
}

func TestCallCountsTrackDispatch(t *testing.T) {
	transport := memtransport.New()
	ctx := context.Background()

	require.NoError(t, transport.ConnectPool(ctx, "pool"))
	_, err := transport.OpenContainer(ctx, "pool", "container", true)
	require.NoError(t, err)
	ref, err := transport.OpenObject(ctx, "pool", "container", objectstore.NewObjectID(1, 1))
	require.NoError(t, err)

	iods := []objectstore.IODescriptor{{AttributeKey: 1, Length: 3}}
	sgl := []objectstore.IOVec{{Buffer: []byte("abc")}}
	require.NoError(t, ref.Update(ctx, 1, iods, sgl))
	require.NoError(t, ref.Fetch(ctx, 1, iods, sgl))

	require.Equal(t, 1, transport.Calls.ConnectPool)
	require.Equal(t, 1, transport.Calls.OpenContainer)
	require.Equal(t, 1, transport.Calls.OpenObject)
	require.Equal(t, 1, transport.Calls.Update)
	require.Equal(t, 1, transport.Calls.Fetch)
}
