// Package engine executes WebAssembly modules on a wazero runtime.
//
// The engine pairs the structural view from package wasm with wazero's
// compiled form: Compile parses and validates the binary into a
// wasm.Module and compiles the same bytes, Instantiate resolves imports
// through a linker.Linker, and Instance exposes the running module.
//
// # Host Functions
//
// Host functions are registered as linker definitions whose symbol wraps
// an api.GoModuleFunc:
//
//	l := linker.NewWithDefaults()
//	l.DefineFunc("env", "log", logSig, engine.Host(func(ctx context.Context, mod api.Module, stack []uint64) {
//	    // stack carries params in, results out
//	}))
//
// During instantiation the engine groups host definitions by import module
// name and instantiates one wazero host module per group. Imports from
// other guest modules resolve by instance name through the runtime.
//
// # Symbols
//
// After instantiation each exported function's wazero handle is bound onto
// the structural module's signature entry, and each resolved host function
// import carries its definition's symbol. Code holding only type
// descriptors can reach the callables through those bindings.
//
// # Thread Safety
//
// Engine and CompiledModule are safe for concurrent use. Instance is not.
package engine
