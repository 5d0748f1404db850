// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package objectstore provides a client wrapper around a DAOS-style object
// store: synchronous single-key I/O and asynchronous vectored multi-key I/O
// coordinated through an event queue with parent/child barriers.
package objectstore

import "github.com/zeebo/errs"

// Error is the errs class for every error raised by this package.
var Error = errs.Class("objectstore")

// ErrorKind classifies the failure reported by a boundary call, matching the
// kinds a real object-store client library would surface as negative status
// codes.
type ErrorKind int

const (
	// ErrNone indicates success.
	ErrNone ErrorKind = iota
	// ErrInvalidURI means the URI does not match scheme://pool/container.
	ErrInvalidURI
	// ErrObjectOpenFailed means the library refused to open an object.
	ErrObjectOpenFailed
	// ErrContainerOpenFailed means container open (or create) failed with
	// anything other than "already exists".
	ErrContainerOpenFailed
	// ErrPoolConnectFailed means pool connect was rejected.
	ErrPoolConnectFailed
	// ErrUnknownObjectClass means a class-name lookup returned unknown.
	ErrUnknownObjectClass
	// ErrVectoredReadIncomplete means the parent event completed with
	// residual (failed) children.
	ErrVectoredReadIncomplete
	// ErrStorageUnavailable means the event queue failed to initialize.
	ErrStorageUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrInvalidURI:
		return "invalid URI"
	case ErrObjectOpenFailed:
		return "object open failed"
	case ErrContainerOpenFailed:
		return "container open failed"
	case ErrPoolConnectFailed:
		return "pool connect failed"
	case ErrUnknownObjectClass:
		return "unknown object class"
	case ErrVectoredReadIncomplete:
		return "vectored read/write incomplete"
	case ErrStorageUnavailable:
		return "storage unavailable"
	default:
		return "unknown error kind"
	}
}

// StoreError pairs a negative status code with its ErrorKind. It is
// returned (wrapped by Error) whenever a boundary call fails; nothing is
// retried by this layer. Transport reports failures as Go errors without a
// numeric status, so every StoreError raised by this package carries
// Code -1 and the transport's own error is not attached.
type StoreError struct {
	Kind ErrorKind
	Code int
}

func (e *StoreError) Error() string {
	return e.Kind.String()
}

// newStoreErr wraps a (kind, code) pair through the package's errs.Class so
// callers can both errors.As into StoreError and match the class with
// Error.Has.
func newStoreErr(kind ErrorKind, code int) error {
	return Error.Wrap(&StoreError{Kind: kind, Code: code})
}
