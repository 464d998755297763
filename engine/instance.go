package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/wasm"
)

// Instance is a running module. Not safe for concurrent use.
type Instance struct {
	engine *Engine
	module *wasm.Module
	mod    api.Module
}

// Module returns the structural module this instance was built from.
func (i *Instance) Module() *wasm.Module {
	return i.module
}

// Raw returns the underlying wazero module for direct access.
func (i *Instance) Raw() api.Module {
	return i.mod
}

// Call invokes an exported function by name. Params and results use
// wazero's uint64 stack encoding.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRun, "exported function", name)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Invoke(name, err)
	}
	return results, nil
}

// Func returns the callable handle for an exported function, or nil.
func (i *Instance) Func(name string) api.Function {
	return i.mod.ExportedFunction(name)
}

// Memory returns the exported memory, or nil when the module has none.
func (i *Instance) Memory() api.Memory {
	return i.mod.Memory()
}

// Close tears the instance down.
func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}

// bindExportSymbols attaches each exported function's callable handle to
// the module's signature entry. Functions sharing a type entry share the
// binding; the last export bound wins, which is harmless since any handle
// satisfies callers that only need one representative per signature.
func (i *Instance) bindExportSymbols() {
	for _, exp := range i.module.Exports {
		if exp.Kind != wasm.KindFunc {
			continue
		}
		fn := i.mod.ExportedFunction(exp.Name)
		if fn == nil {
			continue
		}
		if ft := i.module.GetFuncType(exp.Idx); ft != nil {
			ft.BindSymbol(fn)
		}
	}
}
