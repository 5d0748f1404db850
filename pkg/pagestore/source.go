// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

import (
	"context"

	"go.uber.org/zap"

	"github.com/root-project/rntuple-daos/pkg/anchor"
	"github.com/root-project/rntuple-daos/pkg/keyspace"
	"github.com/root-project/rntuple-daos/pkg/objectstore"
)

// Source reads a tuple previously written by a Sink. Attach recovers the
// keyspace strategy from where the anchor is found and the object class
// from its contents, so callers never need to know which strategy wrote a
// given container.
type Source struct {
	pool           *objectstore.Pool
	container      *objectstore.Container
	containerLabel string
	strategy       keyspace.Strategy
	compressor     *Compressor
	compression    CompressionLevel
	log            *zap.Logger

	objClassName string
	descriptor   *Descriptor
}

// PageRequest identifies one page to fetch as part of a LoadClusters batch.
// Dest must already be sized to at least the page's on-storage length;
// LoadClusters fills it with the page's sealed (compressed) bytes.
type PageRequest struct {
	ClusterID uint64
	ColumnID  uint32
	PageNo    int
	Dest      []byte
}

// Attach opens containerLabel in pool and reconstructs its Descriptor: the
// anchor is read first (trying the ClusterDColumn location, then falling
// back to the legacy UniquePerEntity location), which resolves the object
// class and keyspace strategy used to read everything else.
func Attach(ctx context.Context, pool *objectstore.Pool, containerLabel string, opts ReadOptions, logger *zap.Logger) (src *Source, err error) {
	defer mon.Task()(&ctx)(&err)

	if logger == nil {
		logger = zap.NewNop()
	}

	container, err := objectstore.OpenContainer(ctx, pool, containerLabel, false, objectstore.ClassUnknown)
	if err != nil {
		return nil, err
	}

	anchorBuf := make([]byte, anchor.ReservedSize())
	strategy := keyspace.ClusterDColumn
	loc := keyspace.MetadataKey(strategy, keyspace.KindAnchor)
	if err := container.ReadSingleAkeyClass(ctx, anchorBuf, loc.OID, loc.Dkey, loc.Akey, objectstore.DefaultMetadataClass); err != nil {
		strategy = keyspace.UniquePerEntity
		loc = keyspace.MetadataKey(strategy, keyspace.KindAnchor)
		if err := container.ReadSingleAkeyClass(ctx, anchorBuf, loc.OID, loc.Dkey, loc.Akey, objectstore.DefaultMetadataClass); err != nil {
			_ = container.Close(ctx)
			return nil, err
		}
	}

	a, _, err := anchor.Deserialize(anchorBuf)
	if err != nil {
		_ = container.Close(ctx)
		return nil, err
	}

	className := opts.ObjectClass
	if className == "" {
		className = a.ObjClassName
	}
	cid, err := objectstore.ObjectClassByName(className)
	if err != nil {
		_ = container.Close(ctx)
		return nil, err
	}
	container.SetDefaultObjectClass(cid)

	compression := CompressionDefault
	compressor, err := NewCompressor(compression)
	if err != nil {
		_ = container.Close(ctx)
		return nil, err
	}

	headerBuf := make([]byte, a.NBytesHeader)
	hloc := keyspace.MetadataKey(strategy, keyspace.KindHeader)
	if err := container.ReadSingleAkeyClass(ctx, headerBuf, hloc.OID, hloc.Dkey, hloc.Akey, objectstore.DefaultMetadataClass); err != nil {
		_ = compressor.Close()
		_ = container.Close(ctx)
		return nil, err
	}
	header, err := compressor.Unzip(headerBuf, a.LenHeader)
	if err != nil {
		_ = compressor.Close()
		_ = container.Close(ctx)
		return nil, err
	}

	footerBuf := make([]byte, a.NBytesFooter)
	floc := keyspace.MetadataKey(strategy, keyspace.KindFooter)
	if err := container.ReadSingleAkeyClass(ctx, footerBuf, floc.OID, floc.Dkey, floc.Akey, objectstore.DefaultMetadataClass); err != nil {
		_ = compressor.Close()
		_ = container.Close(ctx)
		return nil, err
	}
	footerZipped, err := compressor.Unzip(footerBuf, a.LenFooter)
	if err != nil {
		_ = compressor.Close()
		_ = container.Close(ctx)
		return nil, err
	}
	footer, err := DecodeFooter(footerZipped)
	if err != nil {
		_ = compressor.Close()
		_ = container.Close(ctx)
		return nil, err
	}

	clusters := make(map[uint64]ClusterSummary)
	for _, group := range footer.ClusterGroups {
		plBuf := make([]byte, group.Locator.BytesOnStorage)
		plLoc := keyspace.PageListKey(strategy, group.Locator.Position)
		if err := container.ReadSingleAkeyClass(ctx, plBuf, plLoc.OID, plLoc.Dkey, plLoc.Akey, objectstore.DefaultMetadataClass); err != nil {
			_ = compressor.Close()
			_ = container.Close(ctx)
			return nil, err
		}
		raw, err := compressor.Unzip(plBuf, group.UncompressedSize)
		if err != nil {
			_ = compressor.Close()
			_ = container.Close(ctx)
			return nil, err
		}
		summaries, err := DecodePageList(raw)
		if err != nil {
			_ = compressor.Close()
			_ = container.Close(ctx)
			return nil, err
		}
		for _, cs := range summaries {
			clusters[cs.ClusterID] = cs
		}
	}

	logger.Debug("attached object-store page source",
		zap.String("container", containerLabel),
		zap.String("objectClass", className),
		zap.Int("strategy", int(strategy)))

	return &Source{
		pool:           pool,
		container:      container,
		containerLabel: containerLabel,
		strategy:       strategy,
		compressor:     compressor,
		compression:    compression,
		log:            logger,
		objClassName:   className,
		descriptor: &Descriptor{
			ObjectClassName: a.ObjClassName,
			HeaderPayload:   header,
			FooterPayload:   footer.HostPayload,
			Clusters:        clusters,
		},
	}, nil
}

// Descriptor returns the physical layout recovered by Attach.
func (s *Source) Descriptor() *Descriptor { return s.descriptor }

// LoadSealedPage reads one page's compressed bytes directly, without
// consulting any other page - useful when only a single page is needed and
// a vectored LoadClusters call would be overkill.
func (s *Source) LoadSealedPage(ctx context.Context, clusterID uint64, columnID uint32, pageNo int) (SealedPage, error) {
	info, ok := s.descriptor.FindPage(clusterID, columnID, pageNo)
	if !ok {
		return SealedPage{}, ErrPageNotFound
	}
	buf := make([]byte, info.Locator.BytesOnStorage)
	key := keyspace.PageKey(s.strategy, clusterID, objectstore.DistributionKey(columnID), info.Locator.Position)
	if err := s.container.ReadSingleAkey(ctx, buf, key.OID, key.Dkey, key.Akey); err != nil {
		return SealedPage{}, err
	}
	return SealedPage{Buffer: buf, NElements: info.NElements}, nil
}

// PopulatePage reads and decompresses one page, returning its raw element
// bytes. The caller already knows the element layout from the schema it
// decoded out of Descriptor().HeaderPayload; this package never interprets
// it.
func (s *Source) PopulatePage(ctx context.Context, clusterID uint64, columnID uint32, pageNo int) ([]byte, error) {
	sealed, err := s.LoadSealedPage(ctx, clusterID, columnID, pageNo)
	if err != nil {
		return nil, err
	}
	return UnsealPage(sealed, 0, s.compressor)
}

// LoadClusters performs one coalesced vectored read across every page named
// in reqs, filling each Dest with that page's sealed (still compressed)
// bytes. Pages sharing a cluster and column are merged into a single
// multi-akey request by the underlying Container.
func (s *Source) LoadClusters(ctx context.Context, reqs []PageRequest) (err error) {
	defer mon.Task()(&ctx)(&err)

	ops := make([]objectstore.RWOperation, 0, len(reqs))
	for _, r := range reqs {
		info, ok := s.descriptor.FindPage(r.ClusterID, r.ColumnID, r.PageNo)
		if !ok {
			return ErrPageNotFound
		}
		if uint32(len(r.Dest)) < info.Locator.BytesOnStorage {
			return Error.New("destination buffer too small for page (need %d, have %d)", info.Locator.BytesOnStorage, len(r.Dest))
		}
		key := keyspace.PageKey(s.strategy, r.ClusterID, objectstore.DistributionKey(r.ColumnID), info.Locator.Position)
		ops = append(ops, objectstore.RWOperation{OID: key.OID, Dkey: key.Dkey, Akey: key.Akey, Buffer: r.Dest[:info.Locator.BytesOnStorage]})
	}
	if err := s.container.ReadV(ctx, ops); err != nil {
		return ErrVectoredReadIncomplete
	}
	return nil
}

// Clone opens an independent Source against the same container, sharing the
// already-parsed descriptor but holding its own container handle and
// compressor (objects are opened per request) - the same
// shape the original per-read-thread clone operation takes, minus the
// thread.
func (s *Source) Clone(ctx context.Context) (*Source, error) {
	cid, err := objectstore.ObjectClassByName(s.objClassName)
	if err != nil {
		return nil, err
	}
	container, err := objectstore.OpenContainer(ctx, s.pool, s.containerLabel, false, cid)
	if err != nil {
		return nil, err
	}
	compressor, err := NewCompressor(s.compression)
	if err != nil {
		_ = container.Close(ctx)
		return nil, err
	}
	return &Source{
		pool:           s.pool,
		container:      container,
		containerLabel: s.containerLabel,
		strategy:       s.strategy,
		compressor:     compressor,
		compression:    s.compression,
		log:            s.log,
		objClassName:   s.objClassName,
		descriptor:     s.descriptor,
	}, nil
}

// Close releases the source's compressor and container.
func (s *Source) Close(ctx context.Context) error {
	cerr := s.compressor.Close()
	operr := s.container.Close(ctx)
	if operr != nil {
		return operr
	}
	return cerr
}
