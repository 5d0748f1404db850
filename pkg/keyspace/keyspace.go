// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package keyspace is the pure function from logical identifiers (cluster
// id, column id, page offset; metadata kind) to an object-store location
// (object id, distribution key, attribute key). It holds no state and makes
// no I/O calls.
package keyspace

import "github.com/root-project/rntuple-daos/pkg/objectstore"

// Strategy selects one of the two supported keyspace layouts. Exactly one
// is chosen at write time and recorded implicitly by where the anchor is
// stored: pkg/pagestore's Attach probes the ClusterDColumn anchor location
// first and falls back to the UniquePerEntity one.
type Strategy int

const (
	// ClusterDColumn is the forward-going default: one object id per
	// cluster, dkey = column id, akey = per-column page offset.
	ClusterDColumn Strategy = iota
	// UniquePerEntity is the legacy layout: each metadata kind has its
	// own hard-coded object id; pages use one object id per page with a
	// fixed dkey/akey.
	UniquePerEntity
)

// MetadataKind selects which fixed metadata record a metadataKey lookup
// addresses.
type MetadataKind int

const (
	// KindAnchor addresses the tuple anchor.
	KindAnchor MetadataKind = iota
	// KindHeader addresses the serialized header.
	KindHeader
	// KindFooter addresses the serialized footer.
	KindFooter
)

// Keyspace constants, verbatim, required for cross-reader compatibility
// (spec.md §6).
const (
	KDistributionKey         objectstore.DistributionKey = 0x5a3c69f0cafe4a11 // legacy
	KDistributionKeyMetadata objectstore.DistributionKey = 0x5a3c69f0cafe4912

	KAttributeKey       objectstore.AttributeKey = 0x4243544b5344422d // legacy, == KAttributeKeyAnchor
	KAttributeKeyAnchor objectstore.AttributeKey = 0x4243544b5344422d
	KAttributeKeyHeader objectstore.AttributeKey = 0x4243544b5344421e
	KAttributeKeyFooter objectstore.AttributeKey = 0x4243544b5344420f
)

// Fixed legacy metadata object ids (UniquePerEntity strategy only).
var (
	kOidAnchor = objectstore.NewObjectID(^uint64(0), 0)   // hi = -1
	kOidHeader = objectstore.NewObjectID(^uint64(0)-1, 0) // hi = -2
	kOidFooter = objectstore.NewObjectID(^uint64(0)-2, 0) // hi = -3
)

// KOidMetadata is the single fixed object holding anchor/header/footer
// under the ClusterDColumn strategy.
var KOidMetadata = objectstore.NewObjectID(0, ^uint64(0)-10) // lo = -11

// KOidPageList is the fixed metadata object holding per-cluster-group
// serialized page lists, keyed by monotonic offset.
var KOidPageList = objectstore.NewObjectID(0, ^uint64(0)-11) // lo = -12

// Location is a resolved (object id, distribution key, attribute key)
// triple.
type Location struct {
	OID  objectstore.ObjectID
	Dkey objectstore.DistributionKey
	Akey objectstore.AttributeKey
}

// PageKey resolves the storage location of one column page.
func PageKey(strategy Strategy, clusterID uint64, columnID objectstore.DistributionKey, pageOffset objectstore.AttributeKey) Location {
	switch strategy {
	case ClusterDColumn:
		return Location{
			OID:  objectstore.NewObjectID(clusterID, 0),
			Dkey: columnID,
			Akey: pageOffset,
		}
	default: // UniquePerEntity
		return Location{
			OID:  objectstore.NewObjectID(uint64(pageOffset), 0),
			Dkey: KDistributionKey,
			Akey: KAttributeKey,
		}
	}
}

// MetadataKey resolves the storage location of one fixed metadata record.
func MetadataKey(strategy Strategy, kind MetadataKind) Location {
	switch strategy {
	case ClusterDColumn:
		loc := Location{OID: KOidMetadata, Dkey: KDistributionKeyMetadata}
		switch kind {
		case KindHeader:
			loc.Akey = KAttributeKeyHeader
		case KindFooter:
			loc.Akey = KAttributeKeyFooter
		default:
			loc.Akey = KAttributeKeyAnchor
		}
		return loc
	default: // UniquePerEntity
		loc := Location{Dkey: KDistributionKey, Akey: KAttributeKey}
		switch kind {
		case KindHeader:
			loc.OID = kOidHeader
		case KindFooter:
			loc.OID = kOidFooter
		default:
			loc.OID = kOidAnchor
		}
		return loc
	}
}

// PageListKey resolves the storage location of a cluster group's serialized
// page list, keyed by its monotonic offset.
func PageListKey(strategy Strategy, offset objectstore.AttributeKey) Location {
	dkey := KDistributionKeyMetadata
	if strategy == UniquePerEntity {
		dkey = KDistributionKey
	}
	return Location{OID: KOidPageList, Dkey: dkey, Akey: offset}
}
