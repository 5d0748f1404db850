// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

// Page is one column's uncompressed page payload, as produced by the
// out-of-scope page pool/compressor collaborators (spec.md §1). This
// package only ever sees the flat byte buffer and element count; it never
// interprets element type.
type Page struct {
	NElements uint32
	Buffer    []byte
}

// SealedPage is a compressed + framed page payload with its element count,
// ready to write to storage or just read back from it.
type SealedPage struct {
	Buffer    []byte
	NElements uint32
}

// Size is the sealed page's on-storage byte size.
func (s SealedPage) Size() uint32 { return uint32(len(s.Buffer)) }

// SealPage compresses page into a SealedPage using compressor.
func SealPage(page Page, compressor *Compressor) SealedPage {
	return SealedPage{Buffer: compressor.Zip(page.Buffer), NElements: page.NElements}
}

// UnsealPage decompresses a sealed page back into its raw element bytes.
func UnsealPage(sealed SealedPage, lenUncompressed uint32, compressor *Compressor) ([]byte, error) {
	return compressor.Unzip(sealed.Buffer, lenUncompressed)
}
