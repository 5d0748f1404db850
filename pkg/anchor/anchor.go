// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package anchor serializes and deserializes the tuple anchor: the
// fixed-prefix record locating a tuple's compressed header, footer, and
// declaring which object class it was written with. The keyspace strategy
// is not stored in it; readers infer it from the key the anchor is found
// under.
package anchor

import (
	"encoding/binary"

	"github.com/zeebo/errs"
)

// Error is the errs class for anchor codec failures.
var Error = errs.Class("anchor")

// ErrTruncated is returned when fewer than envelopeSize bytes are available
// to deserialize.
var ErrTruncated = Error.New("anchor buffer shorter than envelope")

// ErrStringDecode is returned when the embedded length-prefixed class name
// is malformed (declared length exceeds the remaining buffer).
var ErrStringDecode = Error.New("malformed object-class name")

// envelopeSize is the fixed prefix: five little-endian uint32 fields.
const envelopeSize = 20

// NameMaxLength is the maximum accepted object-class name length. A reader
// must accept any class-name length up to this limit.
const NameMaxLength = 64

// Anchor is the fixed-format header-of-headers locating a tuple's metadata.
type Anchor struct {
	Version      uint32
	NBytesHeader uint32 // compressed size
	LenHeader    uint32 // uncompressed size
	NBytesFooter uint32
	LenFooter    uint32
	ObjClassName string
}

// ReservedSize is the storage budget to allocate for an anchor buffer: the
// fixed envelope plus the maximum class-name length and its length prefix.
func ReservedSize() uint32 {
	return envelopeSize + 4 + NameMaxLength
}

// SerializedSize returns the exact number of bytes Serialize will write for
// a.
func (a Anchor) SerializedSize() uint32 {
	return envelopeSize + 4 + uint32(len(a.ObjClassName))
}

// Serialize encodes a as:
//
//	u32 version
//	u32 nBytesHeader
//	u32 lenHeader
//	u32 nBytesFooter
//	u32 lenFooter
//	u32 len(objClassName) + objClassName bytes
func (a Anchor) Serialize() []byte {
	buf := make([]byte, a.SerializedSize())
	binary.LittleEndian.PutUint32(buf[0:4], a.Version)
	binary.LittleEndian.PutUint32(buf[4:8], a.NBytesHeader)
	binary.LittleEndian.PutUint32(buf[8:12], a.LenHeader)
	binary.LittleEndian.PutUint32(buf[12:16], a.NBytesFooter)
	binary.LittleEndian.PutUint32(buf[16:20], a.LenFooter)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(len(a.ObjClassName)))
	copy(buf[24:], a.ObjClassName)
	return buf
}

// Deserialize decodes an Anchor from buf, returning the number of bytes
// consumed. It fails with ErrTruncated if buf is shorter than the fixed
// envelope, then forwards any string-length error from the name decoder.
func Deserialize(buf []byte) (Anchor, uint32, error) {
	if len(buf) < envelopeSize {
		return Anchor{}, 0, ErrTruncated
	}
	a := Anchor{
		Version:      binary.LittleEndian.Uint32(buf[0:4]),
		NBytesHeader: binary.LittleEndian.Uint32(buf[4:8]),
		LenHeader:    binary.LittleEndian.Uint32(buf[8:12]),
		NBytesFooter: binary.LittleEndian.Uint32(buf[12:16]),
		LenFooter:    binary.LittleEndian.Uint32(buf[16:20]),
	}
	rest := buf[envelopeSize:]
	if len(rest) < 4 {
		return Anchor{}, 0, ErrStringDecode
	}
	nameLen := binary.LittleEndian.Uint32(rest[0:4])
	if uint32(len(rest)-4) < nameLen {
		return Anchor{}, 0, ErrStringDecode
	}
	a.ObjClassName = string(rest[4 : 4+nameLen])
	return a, envelopeSize + 4 + nameLen, nil
}
