package types

import "fmt"

// TableType describes a table's element kind and admissible size range, in
// element units.
//
// The element type must be a reference-kind value type at all times. Every
// constructor and SetRefType panic on a non-reference type: that is an
// internal-consistency bug, not a recoverable error, because the decoder
// validates the encoded element tag before constructing a TableType.
type TableType struct {
	refType ValType
	lim     Limit
}

// NewTableType returns a TableType with only a minimum element count.
// Panics if refType is not a reference-kind value type.
func NewTableType(refType ValType, min uint32) TableType {
	mustRefType(refType)
	return TableType{refType: refType, lim: NewLimit(min)}
}

// NewTableTypeWithMax returns a TableType with both bounds.
// Panics if refType is not a reference-kind value type.
func NewTableTypeWithMax(refType ValType, min, max uint32) TableType {
	mustRefType(refType)
	return TableType{refType: refType, lim: NewLimitWithMax(min, max, false)}
}

// NewTableTypeFromLimit returns a TableType wrapping the given limit.
// Panics if refType is not a reference-kind value type.
func NewTableTypeFromLimit(refType ValType, lim Limit) TableType {
	mustRefType(refType)
	return TableType{refType: refType, lim: lim}
}

// RefType returns the table's element type.
func (t TableType) RefType() ValType { return t.refType }

// SetRefType replaces the element type. Panics if refType is not a
// reference-kind value type.
func (t *TableType) SetRefType(refType ValType) {
	mustRefType(refType)
	t.refType = refType
}

// Limit returns the table's size range.
func (t TableType) Limit() Limit { return t.lim }

// SetLimit replaces the table's size range. Construction-time only.
func (t *TableType) SetLimit(lim Limit) { t.lim = lim }

func (t TableType) String() string {
	return "table " + t.refType.String() + " " + limitString(t.lim)
}

func mustRefType(v ValType) {
	if !v.IsRefType() {
		panic(fmt.Sprintf("types: table element type %s (0x%02x) is not a reference type", v, byte(v)))
	}
}
