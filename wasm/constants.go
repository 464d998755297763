package wasm

// WebAssembly binary format magic number and version.
const (
	// Magic is the WebAssembly binary magic number ("\0asm" in little-endian).
	Magic uint32 = 0x6D736100

	// Version is the supported WebAssembly binary format version.
	Version uint32 = 0x01
)

// Section IDs define the binary identifiers for each module section.
// Sections must appear in increasing canonical order (except custom
// sections, which may appear anywhere).
const (
	SectionCustom    byte = 0  // Custom section
	SectionType      byte = 1  // Type section (function signatures)
	SectionImport    byte = 2  // Import section
	SectionFunction  byte = 3  // Function section (type indices)
	SectionTable     byte = 4  // Table section
	SectionMemory    byte = 5  // Memory section
	SectionGlobal    byte = 6  // Global section
	SectionExport    byte = 7  // Export section
	SectionStart     byte = 8  // Start section
	SectionElement   byte = 9  // Element section
	SectionCode      byte = 10 // Code section (function bodies)
	SectionData      byte = 11 // Data section
	SectionDataCount byte = 12 // Data count section (bulk memory)
)

// Import/Export descriptor kinds identify the type of imported or exported
// definition.
const (
	KindFunc   byte = 0 // Function import/export
	KindTable  byte = 1 // Table import/export
	KindMemory byte = 2 // Memory import/export
	KindGlobal byte = 3 // Global import/export
)

// FuncTypeByte prefixes every function type entry in the type section.
const FuncTypeByte byte = 0x60

// MemoryMaxPages is the largest page count a memory limit may declare
// (4 GiB with 64 KiB pages).
const MemoryMaxPages uint32 = 1 << 16

// Opcodes that may appear in constant initializer expressions. The decoder
// copies initializer bytes verbatim; it only needs to recognize each
// opcode's immediate shape.
const (
	OpEnd       byte = 0x0B
	OpGlobalGet byte = 0x23
	OpI32Const  byte = 0x41
	OpI64Const  byte = 0x42
	OpF32Const  byte = 0x43
	OpF64Const  byte = 0x44
	OpRefNull   byte = 0xD0
	OpRefFunc   byte = 0xD2

	// Extended-const proposal: arithmetic in initializer expressions.
	OpI32Add byte = 0x6A
	OpI32Sub byte = 0x6B
	OpI32Mul byte = 0x6C
	OpI64Add byte = 0x7C
	OpI64Sub byte = 0x7D
	OpI64Mul byte = 0x7E

	// OpPrefixSIMD introduces v128.const in initializer expressions.
	OpPrefixSIMD byte = 0xFD
)

// SimdV128Const is the sub-opcode of v128.const under OpPrefixSIMD.
const SimdV128Const uint32 = 12
