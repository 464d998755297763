package types

import (
	"fmt"
	"strconv"
)

// LimitType discriminates the four limit encodings of the binary format.
// The discriminant, not the stored max value, is authoritative for whether
// a maximum applies.
type LimitType byte

// Limit flag encodings. All four must survive decode/encode round-trips,
// including SharedNoMax (a shared resource with no declared maximum).
const (
	LimitHasMin      LimitType = 0x00 // min only
	LimitHasMinMax   LimitType = 0x01 // min and max
	LimitSharedNoMax LimitType = 0x02 // shared, min only
	LimitShared      LimitType = 0x03 // shared, min and max
)

// Limit describes the allowed size range of a growable resource: a minimum,
// an optional inclusive maximum, and a shared flag. Memories count in pages,
// tables in elements; the unit is a caller convention.
//
// The zero value is HasMin with min 0.
//
// Limit performs no ordering validation of min against max. Rejecting
// min > max in encoded input is the decoder's responsibility.
type Limit struct {
	typ LimitType
	min uint32
	max uint32
}

// NewLimit returns a Limit with only a minimum. The stored max defaults to
// min but is semantically unbounded: HasMax reports false.
func NewLimit(min uint32) Limit {
	return Limit{typ: LimitHasMin, min: min, max: min}
}

// NewLimitWithMax returns a Limit with both bounds, shared if requested.
func NewLimitWithMax(min, max uint32, shared bool) Limit {
	typ := LimitHasMinMax
	if shared {
		typ = LimitShared
	}
	return Limit{typ: typ, min: min, max: max}
}

// Type returns the limit discriminant.
func (l Limit) Type() LimitType { return l.typ }

// SetType overrides the discriminant directly. It exists for
// construction-time normalization by the decoder, e.g. to restore the
// SharedNoMax encoding, and performs no validation.
func (l *Limit) SetType(t LimitType) { l.typ = t }

// HasMax reports whether a maximum bound applies.
func (l Limit) HasMax() bool {
	return l.typ == LimitHasMinMax || l.typ == LimitShared
}

// IsShared reports whether the resource may be shared across agents.
func (l Limit) IsShared() bool {
	return l.typ == LimitSharedNoMax || l.typ == LimitShared
}

// Min returns the minimum bound.
func (l Limit) Min() uint32 { return l.min }

// SetMin sets the minimum bound.
func (l *Limit) SetMin(v uint32) { l.min = v }

// Max returns the stored maximum bound. It is only meaningful when HasMax
// reports true.
func (l Limit) Max() uint32 { return l.max }

// SetMax sets the maximum bound. It does not change the discriminant.
func (l *Limit) SetMax(v uint32) { l.max = v }

func (l Limit) String() string { return limitString(l) }

func limitString(l Limit) string {
	s := "min=" + strconv.FormatUint(uint64(l.min), 10)
	if l.HasMax() {
		s += " max=" + strconv.FormatUint(uint64(l.max), 10)
	}
	if l.IsShared() {
		s += " shared"
	}
	return s
}

func (t LimitType) String() string {
	switch t {
	case LimitHasMin:
		return "min"
	case LimitHasMinMax:
		return "min-max"
	case LimitSharedNoMax:
		return "shared-no-max"
	case LimitShared:
		return "shared"
	default:
		return fmt.Sprintf("limit(0x%02x)", byte(t))
	}
}
