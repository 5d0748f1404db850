// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/root-project/rntuple-daos/pkg/objectstore"
	"github.com/root-project/rntuple-daos/pkg/objectstore/memtransport"
	"github.com/root-project/rntuple-daos/pkg/pagestore"
)

func newPool(t *testing.T) *objectstore.Pool {
	t.Helper()
	ctx := context.Background()
	pool, err := objectstore.ConnectPool(ctx, memtransport.New(), "pool-a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close(ctx) })
	return pool
}

func TestSinkCommitPageRequiresCreate(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	sink, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{}, []byte("header"), nil)
	require.NoError(t, err)
	require.Equal(t, pagestore.StateCreated, sink.State())

	_, err = sink.CommitPage(ctx, 0, pagestore.Page{NElements: 1, Buffer: []byte("x")})
	require.NoError(t, err)
	require.Equal(t, pagestore.StateClusterOpen, sink.State())
}

func TestSinkIllegalStateTransitions(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	sink, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{}, []byte("header"), nil)
	require.NoError(t, err)

	// CommitCluster before any page is committed is illegal: no cluster is open yet.
	_, err = sink.CommitCluster(ctx, 0)
	require.ErrorIs(t, err, pagestore.ErrIllegalState)

	// CommitClusterGroup before CommitCluster is illegal.
	_, err = sink.CommitClusterGroup(ctx, []byte("pagelist"))
	require.ErrorIs(t, err, pagestore.ErrIllegalState)

	// CommitDataset before CommitClusterGroup is illegal.
	err = sink.CommitDataset(ctx, []byte("footer"))
	require.ErrorIs(t, err, pagestore.ErrIllegalState)
}

func TestSinkCommitDatasetIsTerminal(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	sink, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{}, []byte("header"), nil)
	require.NoError(t, err)

	_, err = sink.CommitPage(ctx, 0, pagestore.Page{NElements: 1, Buffer: []byte("x")})
	require.NoError(t, err)
	_, err = sink.CommitCluster(ctx, 1)
	require.NoError(t, err)
	_, err = sink.CommitClusterGroup(ctx, []byte("pagelist"))
	require.NoError(t, err)
	require.NoError(t, sink.CommitDataset(ctx, []byte("footer")))
	require.Equal(t, pagestore.StateDatasetCommitted, sink.State())

	_, err = sink.CommitPage(ctx, 0, pagestore.Page{NElements: 1, Buffer: []byte("y")})
	require.ErrorIs(t, err, pagestore.ErrIllegalState)
}

func TestSinkPageOffsetsAreMonotonic(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	sink, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{}, []byte("header"), nil)
	require.NoError(t, err)

	var prior objectstore.AttributeKey = ^objectstore.AttributeKey(0)
	for i := 0; i < 5; i++ {
		loc, err := sink.CommitPage(ctx, 0, pagestore.Page{NElements: 1, Buffer: []byte{byte(i)}})
		require.NoError(t, err)
		if i > 0 {
			require.Greater(t, loc.Position, prior)
		}
		prior = loc.Position
	}
}

func TestCreateTwiceToleratesExistingContainer(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	first, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{}, []byte("header-v1"), nil)
	require.NoError(t, err)
	require.NoError(t, first.Close(ctx))

	second, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{}, []byte("header-v2"), nil)
	require.NoError(t, err)
	require.NoError(t, second.Close(ctx))
}

func TestCreateRejectsUnknownObjectClass(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()

	_, err := pagestore.Create(ctx, pool, "tuple-a", pagestore.WriteOptions{ObjectClass: "OC_NOPE"}, []byte("header"), nil)
	require.Error(t, err)
}

// writeSimpleTuple drives a sink through a full one-cluster, one-cluster-group
// write and returns the raw page payloads it wrote, keyed by column.
func writeSimpleTuple(t *testing.T, pool *objectstore.Pool, label string, columns, pagesPerColumn, entriesPerPage int) map[uint32][][]byte {
	t.Helper()
	ctx := context.Background()

	sink, err := pagestore.Create(ctx, pool, label, pagestore.WriteOptions{}, []byte("demo-header"), nil)
	require.NoError(t, err)

	payloads := make(map[uint32][][]byte, columns)
	columnPages := make(map[uint32]pagestore.ColumnPages, columns)
	for col := 0; col < columns; col++ {
		pages := make([]pagestore.PageInfo, 0, pagesPerColumn)
		for p := 0; p < pagesPerColumn; p++ {
			raw := make([]byte, entriesPerPage)
			for i := range raw {
				raw[i] = byte(col*17 + p*5 + i)
			}
			payloads[uint32(col)] = append(payloads[uint32(col)], raw)

			loc, err := sink.CommitPage(ctx, uint32(col), pagestore.Page{NElements: uint32(entriesPerPage), Buffer: raw})
			require.NoError(t, err)
			pages = append(pages, pagestore.PageInfo{
				NElements:   uint32(entriesPerPage),
				Locator:     loc,
				FirstInPage: uint64(p * entriesPerPage),
			})
		}
		columnPages[uint32(col)] = pagestore.ColumnPages{Pages: pages}
	}

	nEntries := uint64(pagesPerColumn * entriesPerPage)
	_, err = sink.CommitCluster(ctx, nEntries)
	require.NoError(t, err)

	summary := pagestore.ClusterSummary{ClusterID: 0, NEntries: nEntries, Columns: columnPages}
	cgLoc, err := sink.CommitClusterGroup(ctx, pagestore.EncodePageList([]pagestore.ClusterSummary{summary}))
	require.NoError(t, err)

	footer := pagestore.Footer{
		ClusterGroups: []pagestore.ClusterGroupLocator{cgLoc},
		HostPayload:   []byte("host-payload"),
	}
	require.NoError(t, sink.CommitDataset(ctx, pagestore.EncodeFooter(footer)))
	require.NoError(t, sink.Close(ctx))
	return payloads
}

func TestSinkSourceFidelity(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	payloads := writeSimpleTuple(t, pool, "tuple-fidelity", 2, 3, 16)

	source, err := pagestore.Attach(ctx, pool, "tuple-fidelity", pagestore.ReadOptions{}, nil)
	require.NoError(t, err)
	defer source.Close(ctx)

	desc := source.Descriptor()
	require.Equal(t, "host-payload", string(desc.FooterPayload))
	require.Equal(t, "demo-header", string(desc.HeaderPayload))
	require.Len(t, desc.Clusters, 1)

	for col, pages := range payloads {
		for pageNo, want := range pages {
			got, err := source.PopulatePage(ctx, 0, col, pageNo)
			require.NoError(t, err)
			require.Equal(t, want, got)
		}
	}
}

func TestLoadClustersVectoredBatch(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	payloads := writeSimpleTuple(t, pool, "tuple-vectored", 2, 2, 8)

	source, err := pagestore.Attach(ctx, pool, "tuple-vectored", pagestore.ReadOptions{}, nil)
	require.NoError(t, err)
	defer source.Close(ctx)

	reqs := make([]pagestore.PageRequest, 0, 4)
	dests := make(map[[2]int][]byte)
	for col := uint32(0); col < 2; col++ {
		for page := 0; page < 2; page++ {
			info, ok := source.Descriptor().FindPage(0, col, page)
			require.True(t, ok)
			dest := make([]byte, info.Locator.BytesOnStorage)
			dests[[2]int{int(col), page}] = dest
			reqs = append(reqs, pagestore.PageRequest{ClusterID: 0, ColumnID: col, PageNo: page, Dest: dest})
		}
	}
	require.NoError(t, source.LoadClusters(ctx, reqs))

	for col := uint32(0); col < 2; col++ {
		for page := 0; page < 2; page++ {
			require.NotEmpty(t, dests[[2]int{int(col), page}])
		}
	}
	require.Len(t, payloads, 2)
}

func TestSourceCloneSharesDescriptor(t *testing.T) {
	pool := newPool(t)
	ctx := context.Background()
	writeSimpleTuple(t, pool, "tuple-clone", 1, 1, 4)

	source, err := pagestore.Attach(ctx, pool, "tuple-clone", pagestore.ReadOptions{}, nil)
	require.NoError(t, err)
	defer source.Close(ctx)

	clone, err := source.Clone(ctx)
	require.NoError(t, err)
	defer clone.Close(ctx)

	require.Same(t, source.Descriptor(), clone.Descriptor())

	got, err := clone.PopulatePage(ctx, 0, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)
}
