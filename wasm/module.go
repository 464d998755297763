package wasm

import (
	"github.com/streamvm/wasm-core/types"
)

// Module represents a parsed WebAssembly module's interface surface and
// bodies. Type descriptors are the structural types from package types;
// function bodies and initializer expressions are kept as raw bytes.
type Module struct {
	Types    []types.FunctionType // Function signatures (type index space)
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Tables   []types.TableType
	Memories []types.MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	Elements []Element
	Code     []FuncBody
	Data     []DataSegment

	// DataCount holds the count from the DataCount section (ID 12).
	// Required when data indices appear in code (bulk memory operations).
	DataCount *uint32

	CustomSections []CustomSection
}

// Import represents an imported function, table, memory, or global.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported definition.
// Kind uses KindFunc, KindTable, KindMemory, or KindGlobal.
type ImportDesc struct {
	Table   *types.TableType
	Memory  *types.MemoryType
	Global  *types.GlobalType
	TypeIdx uint32
	Kind    byte
}

// Global represents a global variable with its type and raw initializer
// expression.
type Global struct {
	Type types.GlobalType
	Init []byte
}

// Export describes an exported definition.
// Kind uses KindFunc, KindTable, KindMemory, or KindGlobal.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Element represents an element segment.
// Flags determine the format:
//   - 0: active, tableIdx=0, offset expr, vec(funcidx)
//   - 1: passive, elemkind, vec(funcidx)
//   - 2: active, tableIdx, offset expr, elemkind, vec(funcidx)
//   - 3: declarative, elemkind, vec(funcidx)
//   - 4: active, tableIdx=0, offset expr, vec(expr)
//   - 5: passive, reftype, vec(expr)
//   - 6: active, tableIdx, offset expr, reftype, vec(expr)
//   - 7: declarative, reftype, vec(expr)
type Element struct {
	Offset   []byte
	FuncIdxs []uint32
	Exprs    [][]byte
	Flags    uint32
	TableIdx uint32
	ElemKind byte
	Type     types.ValType
}

// FuncBody represents a function's local declarations and bytecode.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // Raw code bytes including end opcode
}

// LocalEntry represents a group of local variables with the same type.
type LocalEntry struct {
	Count   uint32
	ValType types.ValType
}

// DataSegment represents a data segment.
// Flags determine the format:
//   - 0: active, memIdx=0, offset expr, vec(byte)
//   - 1: passive, vec(byte)
//   - 2: active, memIdx, offset expr, vec(byte)
type DataSegment struct {
	Offset []byte
	Init   []byte
	Flags  uint32
	MemIdx uint32
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

// NumImportedFuncs returns the number of imported functions.
func (m *Module) NumImportedFuncs() int {
	return m.countImports(KindFunc)
}

// NumImportedTables returns the number of imported tables.
func (m *Module) NumImportedTables() int {
	return m.countImports(KindTable)
}

// NumImportedMemories returns the number of imported memories.
func (m *Module) NumImportedMemories() int {
	return m.countImports(KindMemory)
}

// NumImportedGlobals returns the number of imported globals.
func (m *Module) NumImportedGlobals() int {
	return m.countImports(KindGlobal)
}

func (m *Module) countImports(kind byte) int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			count++
		}
	}
	return count
}

// GetFuncType returns the signature of a function by its index in the
// function index space (imports first, then declared functions). The
// returned pointer addresses the module's type table, so a symbol bound
// through it is visible to every function sharing the signature entry.
func (m *Module) GetFuncType(funcIdx uint32) *types.FunctionType {
	numImported := uint32(m.NumImportedFuncs())
	if funcIdx < numImported {
		for i := range m.Imports {
			if m.Imports[i].Desc.Kind != KindFunc {
				continue
			}
			if funcIdx == 0 {
				return m.typeAt(m.Imports[i].Desc.TypeIdx)
			}
			funcIdx--
		}
	}
	localIdx := funcIdx - numImported
	if int(localIdx) >= len(m.Funcs) {
		return nil
	}
	return m.typeAt(m.Funcs[localIdx])
}

func (m *Module) typeAt(typeIdx uint32) *types.FunctionType {
	if int(typeIdx) >= len(m.Types) {
		return nil
	}
	return &m.Types[typeIdx]
}

// TableTypeAt returns the table descriptor at the given index in the table
// index space (imports first, then declared tables).
func (m *Module) TableTypeAt(idx uint32) (types.TableType, bool) {
	for i := range m.Imports {
		if m.Imports[i].Desc.Kind != KindTable {
			continue
		}
		if idx == 0 {
			return *m.Imports[i].Desc.Table, true
		}
		idx--
	}
	if int(idx) >= len(m.Tables) {
		return types.TableType{}, false
	}
	return m.Tables[idx], true
}

// MemoryTypeAt returns the memory descriptor at the given index in the
// memory index space.
func (m *Module) MemoryTypeAt(idx uint32) (types.MemoryType, bool) {
	for i := range m.Imports {
		if m.Imports[i].Desc.Kind != KindMemory {
			continue
		}
		if idx == 0 {
			return *m.Imports[i].Desc.Memory, true
		}
		idx--
	}
	if int(idx) >= len(m.Memories) {
		return types.MemoryType{}, false
	}
	return m.Memories[idx], true
}

// GlobalTypeAt returns the global descriptor at the given index in the
// global index space.
func (m *Module) GlobalTypeAt(idx uint32) (types.GlobalType, bool) {
	for i := range m.Imports {
		if m.Imports[i].Desc.Kind != KindGlobal {
			continue
		}
		if idx == 0 {
			return *m.Imports[i].Desc.Global, true
		}
		idx--
	}
	if int(idx) >= len(m.Globals) {
		return types.GlobalType{}, false
	}
	return m.Globals[idx].Type, true
}

// AddType adds a function signature and returns its type index, reusing an
// existing structurally-equal entry if present.
func (m *Module) AddType(ft types.FunctionType) uint32 {
	for i := range m.Types {
		if m.Types[i].Equal(ft) {
			return uint32(i)
		}
	}
	idx := uint32(len(m.Types))
	m.Types = append(m.Types, ft)
	return idx
}

// ExportedFunc returns the function index for a function export with the
// given name.
func (m *Module) ExportedFunc(name string) (uint32, bool) {
	for _, exp := range m.Exports {
		if exp.Kind == KindFunc && exp.Name == name {
			return exp.Idx, true
		}
	}
	return 0, false
}
