// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package pagestore

import "github.com/zeebo/errs"

// Error is the errs class for failures raised by this package.
var Error = errs.Class("pagestore")

// ErrIllegalState is returned when a sink operation is invoked out of
// lifecycle order (see State).
var ErrIllegalState = Error.New("illegal sink state transition")

// ErrVectoredReadIncomplete is returned when LoadClusters's underlying
// vectored read completes with a non-zero residual.
var ErrVectoredReadIncomplete = Error.New("vectored read incomplete")

// ErrUnknownObjectClass is returned when Create's object class resolves to
// objectstore.ClassUnknown. A name the store does not recognize makes Create
// fail with the objectstore error of kind objectstore.ErrUnknownObjectClass
// instead.
var ErrUnknownObjectClass = Error.New("unknown object class")

// ErrPageNotFound is returned when a requested (cluster, column, page)
// triple is not present in the attached descriptor.
var ErrPageNotFound = Error.New("page not found in descriptor")
