// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

// WriteOptions configures a new PageSink.
type WriteOptions struct {
	// ObjectClass names the redundancy/sharding template applied to data
	// (page) objects. Empty defaults to "OC_SX". Metadata objects (anchor,
	// header, footer, page lists) always use objectstore.DefaultMetadataClass
	// regardless of this setting.
	ObjectClass string
	Compression CompressionLevel
}

// ReadOptions configures a new PageSource.
type ReadOptions struct {
	// ObjectClass overrides the class PageSource uses to open data objects.
	// Normally left empty: the class is recovered from the anchor written by
	// the sink.
	ObjectClass string
}
