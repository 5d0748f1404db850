// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/spacemonkeygo/monkit.v2"

	"github.com/root-project/rntuple-daos/pkg/anchor"
	"github.com/root-project/rntuple-daos/pkg/keyspace"
	"github.com/root-project/rntuple-daos/pkg/objectstore"
)

var mon = monkit.Package()

const defaultObjectClass = "OC_SX"

// Sink writes a tuple's header, pages, cluster groups, and footer to an
// object-store container, driving the anchor/header/footer/page-list
// envelope described by pkg/anchor and pkg/keyspace. Its operations must be
// called in the lifecycle order encoded by State; anything out of order
// fails with ErrIllegalState rather than corrupting storage.
type Sink struct {
	pool       *objectstore.Pool
	container  *objectstore.Container
	strategy   keyspace.Strategy
	compressor *Compressor
	log        *zap.Logger

	mu    sync.Mutex
	state State

	objClassName        string
	clusterID           uint64
	pageOffset          uint64
	bytesCurrentCluster uint64

	nBytesHeader uint32
	lenHeader    uint32
}

// Create opens (creating if necessary) containerLabel in pool, compresses
// and writes headerPayload, and returns a Sink ready for CommitPage. The
// keyspace strategy is always ClusterDColumn for newly created tuples;
// UniquePerEntity only ever arises when PageSource recovers it from an
// existing anchor (see pkg/pagestore/source.go).
func Create(ctx context.Context, pool *objectstore.Pool, containerLabel string, opts WriteOptions, headerPayload []byte, logger *zap.Logger) (sink *Sink, err error) {
	defer mon.Task()(&ctx)(&err)

	if logger == nil {
		logger = zap.NewNop()
	}

	className := opts.ObjectClass
	if className == "" {
		className = defaultObjectClass
	}
	cid, err := objectstore.ObjectClassByName(className)
	if err != nil {
		return nil, err
	}
	if cid.IsUnknown() {
		return nil, ErrUnknownObjectClass
	}

	compressor, err := NewCompressor(opts.Compression)
	if err != nil {
		return nil, err
	}

	container, err := objectstore.OpenContainer(ctx, pool, containerLabel, true, cid)
	if err != nil {
		_ = compressor.Close()
		return nil, err
	}

	logger.Warn("opening experimental object-store page sink",
		zap.String("container", containerLabel),
		zap.String("objectClass", className))

	s := &Sink{
		pool:         pool,
		container:    container,
		strategy:     keyspace.ClusterDColumn,
		compressor:   compressor,
		log:          logger,
		state:        StateCreated,
		objClassName: className,
	}

	zipped := compressor.Zip(headerPayload)
	s.nBytesHeader = uint32(len(zipped))
	s.lenHeader = uint32(len(headerPayload))

	loc := keyspace.MetadataKey(s.strategy, keyspace.KindHeader)
	if err := container.WriteSingleAkeyClass(ctx, zipped, loc.OID, loc.Dkey, loc.Akey, objectstore.DefaultMetadataClass); err != nil {
		return nil, err
	}

	return s, nil
}

// State reports the sink's current lifecycle position.
func (s *Sink) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CommitPage compresses page and writes it under columnID in the currently
// open cluster, returning its on-storage Locator.
func (s *Sink) CommitPage(ctx context.Context, columnID uint32, page Page) (Locator, error) {
	return s.CommitSealedPage(ctx, columnID, SealPage(page, s.compressor))
}

// CommitSealedPage writes an already-compressed page under columnID in the
// currently open cluster. Legal from any state reachable after Create and
// before CommitDataset, including after CommitClusterGroup; it opens a new
// current cluster implicitly on first call after a commit.
func (s *Sink) CommitSealedPage(ctx context.Context, columnID uint32, sealed SealedPage) (loc Locator, err error) {
	defer mon.Task()(&ctx)(&err)

	s.mu.Lock()
	if !oneOf(s.state, StateCreated, StateClusterOpen, StateClusterCommitted, StateClusterGroupCommitted) {
		s.mu.Unlock()
		return Locator{}, ErrIllegalState
	}
	offset := s.pageOffset
	s.pageOffset++
	s.bytesCurrentCluster += uint64(len(sealed.Buffer))
	clusterID := s.clusterID
	s.state = StateClusterOpen
	s.mu.Unlock()

	key := keyspace.PageKey(s.strategy, clusterID, objectstore.DistributionKey(columnID), objectstore.AttributeKey(offset))
	if err := s.container.WriteSingleAkey(ctx, sealed.Buffer, key.OID, key.Dkey, key.Akey); err != nil {
		return Locator{}, err
	}
	return Locator{Position: objectstore.AttributeKey(offset), BytesOnStorage: sealed.Size()}, nil
}

// CommitCluster closes the currently open cluster, returning the total
// compressed bytes written to it. nEntries is recorded for diagnostics only;
// the caller's descriptor builder is the owner of entry counts.
func (s *Sink) CommitCluster(ctx context.Context, nEntries uint64) (bytesWritten uint64, err error) {
	defer mon.Task()(&ctx)(&err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !oneOf(s.state, StateClusterOpen) {
		return 0, ErrIllegalState
	}
	s.log.Debug("cluster committed", zap.Uint64("clusterID", s.clusterID), zap.Uint64("nEntries", nEntries))
	bytesWritten = s.bytesCurrentCluster
	s.bytesCurrentCluster = 0
	s.clusterID++
	s.state = StateClusterCommitted
	return bytesWritten, nil
}

// CommitClusterGroup compresses and writes serializedPageList (the physical
// layout of every cluster committed since the last cluster group), returning
// its Locator and uncompressed size.
func (s *Sink) CommitClusterGroup(ctx context.Context, serializedPageList []byte) (loc ClusterGroupLocator, err error) {
	defer mon.Task()(&ctx)(&err)

	s.mu.Lock()
	if !oneOf(s.state, StateClusterCommitted) {
		s.mu.Unlock()
		return ClusterGroupLocator{}, ErrIllegalState
	}
	offset := s.pageOffset
	s.pageOffset++
	s.state = StateClusterGroupCommitted
	s.mu.Unlock()

	zipped := s.compressor.Zip(serializedPageList)
	key := keyspace.PageListKey(s.strategy, objectstore.AttributeKey(offset))
	if err := s.container.WriteSingleAkeyClass(ctx, zipped, key.OID, key.Dkey, key.Akey, objectstore.DefaultMetadataClass); err != nil {
		return ClusterGroupLocator{}, err
	}
	return ClusterGroupLocator{
		Locator:          Locator{Position: objectstore.AttributeKey(offset), BytesOnStorage: uint32(len(zipped))},
		UncompressedSize: uint32(len(serializedPageList)),
	}, nil
}

// CommitDataset compresses and writes serializedFooter, then finalizes and
// writes the anchor. This is terminal: no further commits are legal on this
// sink afterward.
func (s *Sink) CommitDataset(ctx context.Context, serializedFooter []byte) (err error) {
	defer mon.Task()(&ctx)(&err)

	s.mu.Lock()
	if !oneOf(s.state, StateClusterGroupCommitted) {
		s.mu.Unlock()
		return ErrIllegalState
	}
	s.mu.Unlock()

	zipped := s.compressor.Zip(serializedFooter)
	footerLoc := keyspace.MetadataKey(s.strategy, keyspace.KindFooter)
	if err := s.container.WriteSingleAkeyClass(ctx, zipped, footerLoc.OID, footerLoc.Dkey, footerLoc.Akey, objectstore.DefaultMetadataClass); err != nil {
		return err
	}

	a := anchor.Anchor{
		Version:      1,
		NBytesHeader: s.nBytesHeader,
		LenHeader:    s.lenHeader,
		NBytesFooter: uint32(len(zipped)),
		LenFooter:    uint32(len(serializedFooter)),
		ObjClassName: s.objClassName,
	}
	anchorLoc := keyspace.MetadataKey(s.strategy, keyspace.KindAnchor)
	if err := s.container.WriteSingleAkeyClass(ctx, a.Serialize(), anchorLoc.OID, anchorLoc.Dkey, anchorLoc.Akey, objectstore.DefaultMetadataClass); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = StateDatasetCommitted
	s.mu.Unlock()
	return nil
}

// Close releases the sink's compressor and closes its container. It does not
// require the dataset to have been committed; an incomplete sink may be
// closed to abandon the write.
func (s *Sink) Close(ctx context.Context) error {
	cerr := s.compressor.Close()
	operr := s.container.Close(ctx)
	if operr != nil {
		return operr
	}
	return cerr
}
