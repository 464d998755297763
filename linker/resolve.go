package linker

import (
	"go.uber.org/zap"

	"github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/wasm"
)

// ResolvedImport pairs one module import with the definition that
// satisfies it. Definition.Kind always matches the import's kind. For an
// unresolved import kept by Options.AllowUnresolved, Definition is zero
// and Missing is true.
type ResolvedImport struct {
	Module     string
	Name       string
	Definition Definition
	Missing    bool
}

// Resolution is the result of matching a module's imports against a
// linker's definitions, in import order.
type Resolution struct {
	Module  *wasm.Module
	Imports []ResolvedImport
}

// Funcs returns the resolved function imports in function index order.
func (r *Resolution) Funcs() []ResolvedImport {
	return r.byKind(KindFunc)
}

// Memories returns the resolved memory imports in memory index order.
func (r *Resolution) Memories() []ResolvedImport {
	return r.byKind(KindMemory)
}

// Tables returns the resolved table imports in table index order.
func (r *Resolution) Tables() []ResolvedImport {
	return r.byKind(KindTable)
}

// Globals returns the resolved global imports in global index order.
func (r *Resolution) Globals() []ResolvedImport {
	return r.byKind(KindGlobal)
}

func (r *Resolution) byKind(kind Kind) []ResolvedImport {
	var out []ResolvedImport
	for i, imp := range r.Module.Imports {
		if importKind(imp.Desc.Kind) == kind {
			out = append(out, r.Imports[i])
		}
	}
	return out
}

func importKind(k byte) Kind {
	switch k {
	case wasm.KindFunc:
		return KindFunc
	case wasm.KindTable:
		return KindTable
	case wasm.KindMemory:
		return KindMemory
	default:
		return KindGlobal
	}
}

// Resolve matches every import of m against the linker's definitions.
// Each resolved function import gets the definition's symbol bound onto
// the module's signature entry, so engines can find the host callable
// through the type table.
//
// Unresolved imports are collected into a single UnresolvedImportsError
// unless Options.AllowUnresolved is set. A definition of the wrong kind
// or with an incompatible type fails immediately.
func (l *Linker) Resolve(m *wasm.Module) (*Resolution, error) {
	res := &Resolution{
		Module:  m,
		Imports: make([]ResolvedImport, len(m.Imports)),
	}

	var missing []errors.UnresolvedImport

	for i, imp := range m.Imports {
		wantKind := importKind(imp.Desc.Kind)

		def, ok := l.Lookup(imp.Module, imp.Name)
		if !ok {
			missing = append(missing, errors.UnresolvedImport{
				Module: imp.Module,
				Name:   imp.Name,
				What:   wantKind.String(),
			})
			res.Imports[i] = ResolvedImport{Module: imp.Module, Name: imp.Name, Missing: true}
			continue
		}

		if def.Kind != wantKind {
			return nil, errors.IncompatibleImport(imp.Module, imp.Name,
				"import requires a "+wantKind.String()+", definition provides a "+def.Kind.String())
		}

		if err := matchImport(m, imp, def); err != nil {
			return nil, err
		}

		if def.Kind == KindFunc && def.Symbol != nil {
			if ft := m.GetFuncType(funcImportIndex(m, i)); ft != nil {
				ft.BindSymbol(def.Symbol)
			}
		}

		res.Imports[i] = ResolvedImport{Module: imp.Module, Name: imp.Name, Definition: def}
	}

	if len(missing) > 0 && !l.options.AllowUnresolved {
		return nil, &errors.UnresolvedImportsError{Imports: missing}
	}

	Logger().Debug("linker: resolved module imports",
		zap.Int("imports", len(m.Imports)),
		zap.Int("unresolved", len(missing)))

	return res, nil
}

// funcImportIndex returns the function-space index for the import at
// position importIdx.
func funcImportIndex(m *wasm.Module, importIdx int) uint32 {
	var idx uint32
	for i := 0; i < importIdx; i++ {
		if m.Imports[i].Desc.Kind == wasm.KindFunc {
			idx++
		}
	}
	return idx
}

func matchImport(m *wasm.Module, imp wasm.Import, def Definition) error {
	switch def.Kind {
	case KindFunc:
		if int(imp.Desc.TypeIdx) >= len(m.Types) || def.Func == nil {
			return errors.IncompatibleImport(imp.Module, imp.Name, "missing function signature")
		}
		return matchFunc(imp.Module, imp.Name, m.Types[imp.Desc.TypeIdx], *def.Func)
	case KindTable:
		if imp.Desc.Table == nil || def.Table == nil {
			return errors.IncompatibleImport(imp.Module, imp.Name, "missing table descriptor")
		}
		return matchTable(imp.Module, imp.Name, *imp.Desc.Table, *def.Table)
	case KindMemory:
		if imp.Desc.Memory == nil || def.Memory == nil {
			return errors.IncompatibleImport(imp.Module, imp.Name, "missing memory descriptor")
		}
		return matchMemory(imp.Module, imp.Name, *imp.Desc.Memory, *def.Memory)
	default:
		if imp.Desc.Global == nil || def.Global == nil {
			return errors.IncompatibleImport(imp.Module, imp.Name, "missing global descriptor")
		}
		return matchGlobal(imp.Module, imp.Name, *imp.Desc.Global, *def.Global)
	}
}
