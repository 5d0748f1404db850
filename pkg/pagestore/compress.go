// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

import "github.com/klauspost/compress/zstd"

// CompressionLevel selects a zstd encoder speed/ratio tradeoff, the
// Go-idiomatic replacement for the original RNTupleCompressor's numeric
// "compression level" option (spec.md §6 "Write options").
type CompressionLevel int

const (
	// CompressionFastest favors write throughput over ratio.
	CompressionFastest CompressionLevel = iota
	// CompressionDefault is a balanced default.
	CompressionDefault
	// CompressionBetter favors ratio over throughput.
	CompressionBetter
	// CompressionBest maximizes ratio at the cost of throughput.
	CompressionBest
)

func (l CompressionLevel) zstdLevel() zstd.EncoderLevel {
	switch l {
	case CompressionFastest:
		return zstd.SpeedFastest
	case CompressionBetter:
		return zstd.SpeedBetterCompression
	case CompressionBest:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// Compressor compresses and decompresses the blobs PageSink/PageSource
// write and read: the serialized header, footer, page lists, and every
// sealed page. Grounded on the original's RNTupleCompressor/RNTupleDecompressor
// pair ("Zip"/"Unzip"), backed here by a real codec (klauspost/compress/zstd)
// rather than the bespoke RNTupleZip framing.
type Compressor struct {
	level zstd.EncoderLevel
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

// NewCompressor builds a Compressor for the given level.
func NewCompressor(level CompressionLevel) (*Compressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level.zstdLevel()))
	if err != nil {
		return nil, Error.Wrap(err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, Error.Wrap(err)
	}
	return &Compressor{level: level.zstdLevel(), enc: enc, dec: dec}, nil
}

// Zip compresses data, returning the compressed bytes. The caller is
// responsible for recording the uncompressed length separately (it cannot
// be recovered from the compressed bytes alone without a full decode).
func (c *Compressor) Zip(data []byte) []byte {
	return c.enc.EncodeAll(data, make([]byte, 0, len(data)))
}

// Unzip decompresses compressed into a buffer sized by lenUncompressed.
func (c *Compressor) Unzip(compressed []byte, lenUncompressed uint32) ([]byte, error) {
	out, err := c.dec.DecodeAll(compressed, make([]byte, 0, lenUncompressed))
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return out, nil
}

// Close releases the encoder/decoder's background resources.
func (c *Compressor) Close() error {
	c.enc.Close()
	c.dec.Close()
	return nil
}
