// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package keyspace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/root-project/rntuple-daos/pkg/keyspace"
	"github.com/root-project/rntuple-daos/pkg/objectstore"
)

func TestPageKeyDeterministic(t *testing.T) {
	a := keyspace.PageKey(keyspace.ClusterDColumn, 7, 3, 0)
	b := keyspace.PageKey(keyspace.ClusterDColumn, 7, 3, 0)
	require.Equal(t, a, b)
}

func TestPageKeyScenario2(t *testing.T) {
	loc := keyspace.PageKey(keyspace.ClusterDColumn, 0, 3, 0)
	require.Equal(t, objectstore.NewObjectID(0, 0), loc.OID)
	require.EqualValues(t, 3, loc.Dkey)
	require.EqualValues(t, 0, loc.Akey)
}

func TestPageKeyClusterDColumnVariesByCluster(t *testing.T) {
	a := keyspace.PageKey(keyspace.ClusterDColumn, 0, 3, 0)
	b := keyspace.PageKey(keyspace.ClusterDColumn, 1, 3, 0)
	require.NotEqual(t, a.OID, b.OID)
}

func TestPageKeyUniquePerEntityFixedDkeyAkey(t *testing.T) {
	a := keyspace.PageKey(keyspace.UniquePerEntity, 0, 3, 42)
	require.Equal(t, keyspace.KDistributionKey, a.Dkey)
	require.Equal(t, keyspace.KAttributeKey, a.Akey)
	require.EqualValues(t, 42, a.OID.Hi)
}

func TestMetadataKeyDistinctPerKind(t *testing.T) {
	anchorLoc := keyspace.MetadataKey(keyspace.ClusterDColumn, keyspace.KindAnchor)
	headerLoc := keyspace.MetadataKey(keyspace.ClusterDColumn, keyspace.KindHeader)
	footerLoc := keyspace.MetadataKey(keyspace.ClusterDColumn, keyspace.KindFooter)

	require.Equal(t, keyspace.KOidMetadata, anchorLoc.OID)
	require.Equal(t, anchorLoc.OID, headerLoc.OID)
	require.Equal(t, anchorLoc.OID, footerLoc.OID)
	require.NotEqual(t, anchorLoc.Akey, headerLoc.Akey)
	require.NotEqual(t, headerLoc.Akey, footerLoc.Akey)
}

func TestMetadataKeyUniquePerEntityUsesFixedOids(t *testing.T) {
	anchorLoc := keyspace.MetadataKey(keyspace.UniquePerEntity, keyspace.KindAnchor)
	headerLoc := keyspace.MetadataKey(keyspace.UniquePerEntity, keyspace.KindHeader)
	require.NotEqual(t, anchorLoc.OID, headerLoc.OID)
	require.Equal(t, keyspace.KDistributionKey, anchorLoc.Dkey)
	require.Equal(t, keyspace.KAttributeKey, anchorLoc.Akey)
}

func TestPageListKeyUsesMetadataDkeyUnderClusterDColumn(t *testing.T) {
	loc := keyspace.PageListKey(keyspace.ClusterDColumn, 5)
	require.Equal(t, keyspace.KOidPageList, loc.OID)
	require.Equal(t, keyspace.KDistributionKeyMetadata, loc.Dkey)
	require.EqualValues(t, 5, loc.Akey)
}
