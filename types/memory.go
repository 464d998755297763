package types

// MemoryType describes the admissible size range of a linear memory, in
// page units. The zero value is a memory with minimum 0 and no maximum.
//
// All validity rules are Limit's; MemoryType adds none of its own.
type MemoryType struct {
	lim Limit
}

// NewMemoryType returns a MemoryType with only a minimum page count.
func NewMemoryType(min uint32) MemoryType {
	return MemoryType{lim: NewLimit(min)}
}

// NewMemoryTypeWithMax returns a MemoryType with both bounds, shared if
// requested.
func NewMemoryTypeWithMax(min, max uint32, shared bool) MemoryType {
	return MemoryType{lim: NewLimitWithMax(min, max, shared)}
}

// NewMemoryTypeFromLimit returns a MemoryType wrapping the given limit.
func NewMemoryTypeFromLimit(lim Limit) MemoryType {
	return MemoryType{lim: lim}
}

// Limit returns the memory's size range.
func (m MemoryType) Limit() Limit { return m.lim }

// SetLimit replaces the memory's size range. Construction-time only.
func (m *MemoryType) SetLimit(lim Limit) { m.lim = lim }

func (m MemoryType) String() string {
	return "memory " + limitString(m.lim)
}
