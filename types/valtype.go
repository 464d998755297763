package types

// ValType represents a WebAssembly value type, using the binary format
// encodings.
type ValType byte

// Value type encodings as defined in the WebAssembly binary format.
// Numeric and vector types use 0x7F-0x7B, reference types 0x70 and 0x6F.
const (
	ValI32       ValType = 0x7F // 32-bit integer
	ValI64       ValType = 0x7E // 64-bit integer
	ValF32       ValType = 0x7D // 32-bit float
	ValF64       ValType = 0x7C // 64-bit float
	ValV128      ValType = 0x7B // 128-bit vector (SIMD)
	ValFuncRef   ValType = 0x70 // Function reference
	ValExternRef ValType = 0x6F // External reference
)

// IsRefType reports whether v is a reference-kind value type.
// Tables require their element type to satisfy this predicate.
func (v ValType) IsRefType() bool {
	return v == ValFuncRef || v == ValExternRef
}

// IsNumType reports whether v is a numeric or vector value type.
func (v ValType) IsNumType() bool {
	switch v {
	case ValI32, ValI64, ValF32, ValF64, ValV128:
		return true
	}
	return false
}

// IsValid reports whether v is a known value type encoding.
func (v ValType) IsValid() bool {
	return v.IsNumType() || v.IsRefType()
}

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExternRef:
		return "externref"
	default:
		return "unknown"
	}
}

// Mutability describes whether a global variable may be written after
// instantiation.
type Mutability byte

// Mutability encodings as defined in the WebAssembly binary format.
const (
	MutConst Mutability = 0x00 // immutable global
	MutVar   Mutability = 0x01 // mutable global
)

func (m Mutability) String() string {
	switch m {
	case MutConst:
		return "const"
	case MutVar:
		return "var"
	default:
		return "unknown"
	}
}
