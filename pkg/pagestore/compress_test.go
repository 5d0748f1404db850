// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/root-project/rntuple-daos/pkg/pagestore"
)

func TestCompressorRoundTrip(t *testing.T) {
	for _, level := range []pagestore.CompressionLevel{
		pagestore.CompressionFastest,
		pagestore.CompressionDefault,
		pagestore.CompressionBetter,
		pagestore.CompressionBest,
	} {
		c, err := pagestore.NewCompressor(level)
		require.NoError(t, err)

		original := []byte("the quick brown fox jumps over the lazy dog, repeated: the quick brown fox jumps over the lazy dog")
		zipped := c.Zip(original)
		require.NotEmpty(t, zipped)

		unzipped, err := c.Unzip(zipped, uint32(len(original)))
		require.NoError(t, err)
		require.Equal(t, original, unzipped)

		require.NoError(t, c.Close())
	}
}

func TestCompressorEmptyInput(t *testing.T) {
	c, err := pagestore.NewCompressor(pagestore.CompressionDefault)
	require.NoError(t, err)
	defer c.Close()

	zipped := c.Zip(nil)
	unzipped, err := c.Unzip(zipped, 0)
	require.NoError(t, err)
	require.Empty(t, unzipped)
}
