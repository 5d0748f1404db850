// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

import "github.com/root-project/rntuple-daos/pkg/objectstore"

// Locator records where one compressed blob lives on storage: the key under
// which it was written (an opaque monotonic offset, re-used as an akey) and
// its size once compressed.
type Locator struct {
	Position       objectstore.AttributeKey
	BytesOnStorage uint32
}

// PageInfo is one column page's physical location and element count.
type PageInfo struct {
	NElements   uint32
	Locator     Locator
	FirstInPage uint64 // element index of this page's first element, within its column
}

// ColumnPages is one column's pages within one cluster.
type ColumnPages struct {
	FirstElementIndex uint64 // global element index of this column's first entry in the cluster
	Pages             []PageInfo
}

// ClusterSummary is one cluster's column layout, as recorded in a
// cluster-group page list.
type ClusterSummary struct {
	ClusterID uint64
	NEntries  uint64
	Columns   map[uint32]ColumnPages
}

// ClusterGroupLocator records where a cluster group's serialized,
// compressed page list lives, plus its uncompressed length (needed to size
// the decompression buffer).
type ClusterGroupLocator struct {
	Locator          Locator
	UncompressedSize uint32
}

// Footer is the physical index written by CommitDataset: which cluster
// groups exist and where their page lists are. HostPayload carries whatever
// schema/model bytes the caller's descriptor builder produced; this package
// treats it as opaque (the tuple descriptor/model is an out-of-scope
// collaborator - see spec.md §1).
type Footer struct {
	ClusterGroups []ClusterGroupLocator
	HostPayload   []byte
}

// Descriptor is what PageSource.Attach reconstructs: the object class (and
// therefore keyspace strategy) the tuple was written with, the raw header
// bytes (opaque, for the caller's own descriptor builder), and the merged
// physical cluster layout from every cluster group's page list.
type Descriptor struct {
	ObjectClassName string
	HeaderPayload   []byte
	FooterPayload   []byte
	Clusters        map[uint64]ClusterSummary
}

// FindPage locates a page's info within the descriptor.
func (d *Descriptor) FindPage(clusterID uint64, columnID uint32, pageNo int) (PageInfo, bool) {
	cs, ok := d.Clusters[clusterID]
	if !ok {
		return PageInfo{}, false
	}
	cols, ok := cs.Columns[columnID]
	if !ok || pageNo < 0 || pageNo >= len(cols.Pages) {
		return PageInfo{}, false
	}
	return cols.Pages[pageNo], true
}
