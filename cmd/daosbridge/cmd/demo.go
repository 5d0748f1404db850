// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/root-project/rntuple-daos/pkg/objectstore"
	"github.com/root-project/rntuple-daos/pkg/objectstore/memtransport"
	"github.com/root-project/rntuple-daos/pkg/pagestore"
)

var (
	columnsFlag        int
	pagesPerColumnFlag int
	entriesPerPageFlag int
	objectClassFlag    string
	compressionFlag    string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Write a small tuple through PageSink then read it back through PageSource",
	RunE:  runDemo,
}

func init() {
	flags := demoCmd.Flags()
	flags.IntVar(&columnsFlag, "columns", 2, "number of columns to write")
	flags.IntVar(&pagesPerColumnFlag, "pages-per-column", 3, "pages to write per column")
	flags.IntVar(&entriesPerPageFlag, "entries-per-page", 64, "element count per page")
	flags.StringVar(&objectClassFlag, "object-class", "OC_SX", "object class for data pages")
	flags.StringVar(&compressionFlag, "compression", "default", "fastest, default, better, or best")
}

func parseCompression(s string) (pagestore.CompressionLevel, error) {
	switch s {
	case "fastest":
		return pagestore.CompressionFastest, nil
	case "default":
		return pagestore.CompressionDefault, nil
	case "better":
		return pagestore.CompressionBetter, nil
	case "best":
		return pagestore.CompressionBest, nil
	default:
		return 0, fmt.Errorf("unknown compression level %q", s)
	}
}

func genPage(column, page, entries int) []byte {
	buf := make([]byte, entries)
	for i := range buf {
		buf[i] = byte(column*31 + page*7 + i)
	}
	return buf
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	level, err := parseCompression(compressionFlag)
	if err != nil {
		return err
	}

	transport := memtransport.New()
	pool, err := objectstore.ConnectPool(ctx, transport, poolFlag)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close(ctx) }()

	header := []byte(fmt.Sprintf("demo-schema-v1 columns=%d", columnsFlag))
	writeOpts := pagestore.WriteOptions{ObjectClass: objectClassFlag, Compression: level}
	sink, err := pagestore.Create(ctx, pool, containerFlag, writeOpts, header, logger)
	if err != nil {
		return err
	}

	columns := make(map[uint32]pagestore.ColumnPages, columnsFlag)
	firstPageBytes := make(map[uint32][]byte, columnsFlag)
	for col := 0; col < columnsFlag; col++ {
		pages := make([]pagestore.PageInfo, 0, pagesPerColumnFlag)
		for p := 0; p < pagesPerColumnFlag; p++ {
			raw := genPage(col, p, entriesPerPageFlag)
			if p == 0 {
				firstPageBytes[uint32(col)] = raw
			}
			loc, err := sink.CommitPage(ctx, uint32(col), pagestore.Page{
				NElements: uint32(entriesPerPageFlag),
				Buffer:    raw,
			})
			if err != nil {
				return err
			}
			pages = append(pages, pagestore.PageInfo{
				NElements:   uint32(entriesPerPageFlag),
				Locator:     loc,
				FirstInPage: uint64(p * entriesPerPageFlag),
			})
		}
		columns[uint32(col)] = pagestore.ColumnPages{FirstElementIndex: 0, Pages: pages}
	}

	nEntries := uint64(pagesPerColumnFlag * entriesPerPageFlag)
	if _, err := sink.CommitCluster(ctx, nEntries); err != nil {
		return err
	}

	summary := pagestore.ClusterSummary{ClusterID: 0, NEntries: nEntries, Columns: columns}
	pageListBytes := pagestore.EncodePageList([]pagestore.ClusterSummary{summary})
	cgLoc, err := sink.CommitClusterGroup(ctx, pageListBytes)
	if err != nil {
		return err
	}

	footer := pagestore.Footer{
		ClusterGroups: []pagestore.ClusterGroupLocator{cgLoc},
		HostPayload:   []byte("demo-footer-payload"),
	}
	if err := sink.CommitDataset(ctx, pagestore.EncodeFooter(footer)); err != nil {
		return err
	}
	if err := sink.Close(ctx); err != nil {
		return err
	}

	source, err := pagestore.Attach(ctx, pool, containerFlag, pagestore.ReadOptions{}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = source.Close(ctx) }()

	desc := source.Descriptor()
	fmt.Printf("attached %q: objectClass=%s clusters=%d\n", containerFlag, desc.ObjectClassName, len(desc.Clusters))

	mismatches := 0
	for col := 0; col < columnsFlag; col++ {
		got, err := source.PopulatePage(ctx, 0, uint32(col), 0)
		if err != nil {
			return err
		}
		want := firstPageBytes[uint32(col)]
		if !bytes.Equal(got, want) {
			mismatches++
			logger.Error("page round trip mismatch", zap.Int("column", col))
		}
	}

	if mismatches == 0 {
		fmt.Printf("round trip OK across %d columns\n", columnsFlag)
	} else {
		return fmt.Errorf("%d column(s) failed round trip", mismatches)
	}
	return nil
}
