// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package objectstore

// ObjClassNameMaxLength is the reserved storage budget for an object class
// name. The real library does not define this limit in any header; any call
// to its id-to-name conversion uses a stack buffer between 16 and 50 bytes,
// so 64 is used as a conservative upper bound.
const ObjClassNameMaxLength = 64

// ObjectClass describes the redundancy/sharding template applied to an
// object at generate-id time. Unknown means the caller has already prepared
// a complete object id; any other value means the object id must be
// completed by the store before the object is opened.
type ObjectClass struct {
	id   uint16
	name string
}

// ClassUnknown is the sentinel class meaning "caller prepared the id".
var ClassUnknown = ObjectClass{}

// knownClasses is the fixed name<->id table a real deployment would resolve
// through the store's class registry. OC_SX is the only class the metadata
// path depends on by name (see DefaultMetadataClass).
var knownClasses = map[string]uint16{
	"OC_SX":   1,
	"OC_S1":   2,
	"OC_RP_2": 3,
	"OC_RP_3": 4,
	"OC_EC_2": 5,
}

// DefaultMetadataClass is the class used for every fixed metadata object
// (anchor, header, footer, page list) regardless of the data object class
// configured for pages.
var DefaultMetadataClass = MustObjectClass("OC_SX")

// ObjectClassByName resolves a textual class name to an ObjectClass. An
// empty name resolves to ClassUnknown; any other name that is not in the
// class registry fails with ErrUnknownObjectClass.
func ObjectClassByName(name string) (ObjectClass, error) {
	if name == "" {
		return ClassUnknown, nil
	}
	if len(name) > ObjClassNameMaxLength {
		return ObjectClass{}, newStoreErr(ErrUnknownObjectClass, -1)
	}
	id, ok := knownClasses[name]
	if !ok {
		return ObjectClass{}, newStoreErr(ErrUnknownObjectClass, -1)
	}
	return ObjectClass{id: id, name: name}, nil
}

// MustObjectClass is like ObjectClassByName but panics on an unknown name;
// intended for package-level defaults built from literal strings.
func MustObjectClass(name string) ObjectClass {
	oc, err := ObjectClassByName(name)
	if err != nil {
		panic(err)
	}
	return oc
}

// IsUnknown reports whether this class means "caller prepared the id".
func (c ObjectClass) IsUnknown() bool { return c.id == 0 && c.name == "" }

// String returns the textual class name ("" for ClassUnknown).
func (c ObjectClass) String() string { return c.name }

// ID returns the class's numeric id, used by Transport implementations to
// complete an ObjectID's reserved bits (see ClassShift).
func (c ObjectClass) ID() uint16 { return c.id }
