// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

import "regexp"

var uriPattern = regexp.MustCompile(`^daos://([^/]+)/(.+)$`)

// URI is a parsed "daos://<pool-label>/<container-label>" identifier.
type URI struct {
	PoolLabel      string
	ContainerLabel string
}

// ParseURI parses a tuple URI, rejecting anything that does not match
// scheme://pool/container with ErrInvalidURI.
func ParseURI(uri string) (URI, error) {
	m := uriPattern.FindStringSubmatch(uri)
	if m == nil {
		return URI{}, newStoreErr(ErrInvalidURI, -1)
	}
	return URI{PoolLabel: m[1], ContainerLabel: m[2]}, nil
}
