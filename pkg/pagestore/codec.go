// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

import (
	"encoding/binary"
)

// This file implements the manual little-endian binary framing used for
// footers and page lists, in the same style as pkg/anchor's envelope: fixed
// u32 fields, length-prefixed blobs, length-prefixed repeated groups. It is
// the physical-layout glue spec.md's PageSink/PageSource operations
// describe (§4.6/§4.7); the tuple's logical schema is carried through
// unparsed as Footer.HostPayload.

func putU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func putU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func putBytes(buf []byte, b []byte) []byte {
	buf = putU32(buf, uint32(len(b)))
	return append(buf, b...)
}

type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) u32() (uint32, error) {
	if len(r.buf)-r.pos < 4 {
		return 0, Error.New("truncated: expected u32")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *byteReader) u64() (uint64, error) {
	if len(r.buf)-r.pos < 8 {
		return 0, Error.New("truncated: expected u64")
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *byteReader) bytes() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if uint32(len(r.buf)-r.pos) < n {
		return nil, Error.New("truncated: expected %d byte blob", n)
	}
	b := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// EncodeFooter serializes a Footer: a count-prefixed list of cluster-group
// locators followed by a length-prefixed opaque host payload.
func EncodeFooter(f Footer) []byte {
	buf := make([]byte, 0, 4+len(f.ClusterGroups)*16+4+len(f.HostPayload))
	buf = putU32(buf, uint32(len(f.ClusterGroups)))
	for _, cg := range f.ClusterGroups {
		buf = putU64(buf, cg.Locator.Position)
		buf = putU32(buf, cg.Locator.BytesOnStorage)
		buf = putU32(buf, cg.UncompressedSize)
	}
	buf = putBytes(buf, f.HostPayload)
	return buf
}

// DecodeFooter is the inverse of EncodeFooter.
func DecodeFooter(data []byte) (Footer, error) {
	r := &byteReader{buf: data}
	n, err := r.u32()
	if err != nil {
		return Footer{}, err
	}
	groups := make([]ClusterGroupLocator, n)
	for i := range groups {
		pos, err := r.u64()
		if err != nil {
			return Footer{}, err
		}
		size, err := r.u32()
		if err != nil {
			return Footer{}, err
		}
		uncompressed, err := r.u32()
		if err != nil {
			return Footer{}, err
		}
		groups[i] = ClusterGroupLocator{
			Locator:          Locator{Position: pos, BytesOnStorage: size},
			UncompressedSize: uncompressed,
		}
	}
	payload, err := r.bytes()
	if err != nil {
		return Footer{}, err
	}
	hostPayload := append([]byte(nil), payload...)
	return Footer{ClusterGroups: groups, HostPayload: hostPayload}, nil
}

// EncodePageList serializes the cluster summaries belonging to one cluster
// group.
func EncodePageList(clusters []ClusterSummary) []byte {
	buf := make([]byte, 0, 64*len(clusters))
	buf = putU32(buf, uint32(len(clusters)))
	for _, cs := range clusters {
		buf = putU64(buf, cs.ClusterID)
		buf = putU64(buf, cs.NEntries)
		buf = putU32(buf, uint32(len(cs.Columns)))
		for columnID, cols := range cs.Columns {
			buf = putU32(buf, columnID)
			buf = putU64(buf, cols.FirstElementIndex)
			buf = putU32(buf, uint32(len(cols.Pages)))
			for _, p := range cols.Pages {
				buf = putU32(buf, p.NElements)
				buf = putU64(buf, p.Locator.Position)
				buf = putU32(buf, p.Locator.BytesOnStorage)
				buf = putU64(buf, p.FirstInPage)
			}
		}
	}
	return buf
}

// DecodePageList is the inverse of EncodePageList.
func DecodePageList(data []byte) ([]ClusterSummary, error) {
	r := &byteReader{buf: data}
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	clusters := make([]ClusterSummary, n)
	for i := range clusters {
		clusterID, err := r.u64()
		if err != nil {
			return nil, err
		}
		nEntries, err := r.u64()
		if err != nil {
			return nil, err
		}
		nColumns, err := r.u32()
		if err != nil {
			return nil, err
		}
		columns := make(map[uint32]ColumnPages, nColumns)
		for c := uint32(0); c < nColumns; c++ {
			columnID, err := r.u32()
			if err != nil {
				return nil, err
			}
			firstElementIndex, err := r.u64()
			if err != nil {
				return nil, err
			}
			nPages, err := r.u32()
			if err != nil {
				return nil, err
			}
			pages := make([]PageInfo, nPages)
			for p := range pages {
				nElements, err := r.u32()
				if err != nil {
					return nil, err
				}
				position, err := r.u64()
				if err != nil {
					return nil, err
				}
				bytesOnStorage, err := r.u32()
				if err != nil {
					return nil, err
				}
				firstInPage, err := r.u64()
				if err != nil {
					return nil, err
				}
				pages[p] = PageInfo{
					NElements:   nElements,
					Locator:     Locator{Position: position, BytesOnStorage: bytesOnStorage},
					FirstInPage: firstInPage,
				}
			}
			columns[columnID] = ColumnPages{FirstElementIndex: firstElementIndex, Pages: pages}
		}
		clusters[i] = ClusterSummary{ClusterID: clusterID, NEntries: nEntries, Columns: columns}
	}
	return clusters, nil
}
