package wasm

import (
	werrors "github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/types"
)

// Validate checks the module for structural validity: index spaces in
// bounds, export names unique, start signature, and limit rules for
// memories and tables. Failures come back as *errors.Error with phase
// validate.
func (m *Module) Validate() error {
	if err := m.validateTypeIndices(); err != nil {
		return err
	}
	if err := m.validateFunctionIndices(); err != nil {
		return err
	}
	if err := m.validateTableIndices(); err != nil {
		return err
	}
	if err := m.validateMemoryIndices(); err != nil {
		return err
	}
	if err := m.validateGlobalIndices(); err != nil {
		return err
	}
	if err := m.validateExports(); err != nil {
		return err
	}
	if err := m.validateStart(); err != nil {
		return err
	}
	if err := m.validateDataCount(); err != nil {
		return err
	}
	if err := m.validateCodeCount(); err != nil {
		return err
	}
	if err := m.validateMemoryTypes(); err != nil {
		return err
	}
	return m.validateTableTypes()
}

// ParseModuleValidate parses a WebAssembly binary and validates it.
func ParseModuleValidate(data []byte) (*Module, error) {
	m, err := ParseModule(data)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Module) validateTypeIndices() error {
	numTypes := uint32(len(m.Types))

	for i, typeIdx := range m.Funcs {
		if typeIdx >= numTypes {
			return werrors.Invalid("function %d references invalid type index %d", i, typeIdx)
		}
	}

	for i, imp := range m.Imports {
		if imp.Desc.Kind == KindFunc && imp.Desc.TypeIdx >= numTypes {
			return werrors.New(werrors.PhaseValidate, werrors.KindOutOfRange).
				Import(imp.Module, imp.Name).
				Detail("import %d references invalid type index %d", i, imp.Desc.TypeIdx).
				Build()
		}
	}

	return nil
}

func (m *Module) validateFunctionIndices() error {
	numFuncs := uint32(m.NumImportedFuncs() + len(m.Funcs))

	if m.Start != nil && *m.Start >= numFuncs {
		return werrors.Invalid("start function index %d exceeds function count %d", *m.Start, numFuncs)
	}

	for i, elem := range m.Elements {
		for j, funcIdx := range elem.FuncIdxs {
			if funcIdx >= numFuncs {
				return werrors.Invalid("element %d, entry %d references invalid function index %d", i, j, funcIdx)
			}
		}
	}

	for i, exp := range m.Exports {
		if exp.Kind == KindFunc && exp.Idx >= numFuncs {
			return werrors.Invalid("export %d (%s) references invalid function index %d", i, exp.Name, exp.Idx)
		}
	}

	return nil
}

func (m *Module) validateTableIndices() error {
	numTables := uint32(m.NumImportedTables() + len(m.Tables))

	for i, elem := range m.Elements {
		// Passive and declarative segments don't reference tables.
		isPassive := elem.Flags&0x01 != 0
		if !isPassive && elem.TableIdx >= numTables {
			return werrors.Invalid("element %d references invalid table index %d", i, elem.TableIdx)
		}
	}

	for i, exp := range m.Exports {
		if exp.Kind == KindTable && exp.Idx >= numTables {
			return werrors.Invalid("export %d (%s) references invalid table index %d", i, exp.Name, exp.Idx)
		}
	}

	return nil
}

func (m *Module) validateMemoryIndices() error {
	numMemories := uint32(m.NumImportedMemories() + len(m.Memories))

	for i, data := range m.Data {
		// Passive segments (flags == 1) don't reference memory.
		if data.Flags != 1 && data.MemIdx >= numMemories {
			return werrors.Invalid("data segment %d references invalid memory index %d", i, data.MemIdx)
		}
	}

	for i, exp := range m.Exports {
		if exp.Kind == KindMemory && exp.Idx >= numMemories {
			return werrors.Invalid("export %d (%s) references invalid memory index %d", i, exp.Name, exp.Idx)
		}
	}

	return nil
}

func (m *Module) validateGlobalIndices() error {
	numGlobals := uint32(m.NumImportedGlobals() + len(m.Globals))

	for i, exp := range m.Exports {
		if exp.Kind == KindGlobal && exp.Idx >= numGlobals {
			return werrors.Invalid("export %d (%s) references invalid global index %d", i, exp.Name, exp.Idx)
		}
	}

	return nil
}

func (m *Module) validateExports() error {
	seen := make(map[string]bool)
	for i, exp := range m.Exports {
		if seen[exp.Name] {
			return werrors.Invalid("duplicate export name %q at index %d", exp.Name, i)
		}
		seen[exp.Name] = true
	}
	return nil
}

func (m *Module) validateStart() error {
	if m.Start == nil {
		return nil
	}

	funcType := m.GetFuncType(*m.Start)
	if funcType == nil {
		return werrors.Invalid("start function %d has no type", *m.Start)
	}

	if !funcType.Equal(types.NewFunctionType(nil, nil)) {
		return werrors.Invalid("start function must have signature () -> (), got %s", funcType)
	}

	return nil
}

func (m *Module) validateDataCount() error {
	if m.DataCount != nil && *m.DataCount != uint32(len(m.Data)) {
		return werrors.Invalid("data count section declares %d segments, but data section has %d",
			*m.DataCount, len(m.Data))
	}
	return nil
}

func (m *Module) validateCodeCount() error {
	if len(m.Code) != len(m.Funcs) {
		return werrors.Invalid("code section has %d entries but function section has %d",
			len(m.Code), len(m.Funcs))
	}
	return nil
}

func (m *Module) validateMemoryTypes() error {
	for i, imp := range m.Imports {
		if imp.Desc.Kind == KindMemory && imp.Desc.Memory != nil {
			if err := validateMemoryType(*imp.Desc.Memory, i, true); err != nil {
				return err
			}
		}
	}
	for i, mem := range m.Memories {
		if err := validateMemoryType(mem, i, false); err != nil {
			return err
		}
	}
	return nil
}

func validateMemoryType(mem types.MemoryType, idx int, isImport bool) error {
	prefix := "memory"
	if isImport {
		prefix = "imported memory"
	}

	lim := mem.Limit()

	// The SharedNoMax encoding survives decoding, but the threads proposal
	// requires shared memories to declare a maximum.
	if lim.IsShared() && !lim.HasMax() {
		return werrors.Invalid("%s %d: shared memory must have maximum limit", prefix, idx)
	}

	if lim.Min() > MemoryMaxPages {
		return werrors.Invalid("%s %d: min pages %d exceeds maximum %d", prefix, idx, lim.Min(), MemoryMaxPages)
	}
	if lim.HasMax() && lim.Max() > MemoryMaxPages {
		return werrors.Invalid("%s %d: max pages %d exceeds maximum %d", prefix, idx, lim.Max(), MemoryMaxPages)
	}
	return nil
}

func (m *Module) validateTableTypes() error {
	for i, imp := range m.Imports {
		if imp.Desc.Kind == KindTable && imp.Desc.Table != nil {
			if err := validateTableType(*imp.Desc.Table, i, true); err != nil {
				return err
			}
		}
	}
	for i, t := range m.Tables {
		if err := validateTableType(t, i, false); err != nil {
			return err
		}
	}
	return nil
}

func validateTableType(t types.TableType, idx int, isImport bool) error {
	prefix := "table"
	if isImport {
		prefix = "imported table"
	}

	// Shared limits apply to memories only.
	if t.Limit().IsShared() {
		return werrors.Invalid("%s %d: tables cannot be shared", prefix, idx)
	}
	return nil
}
