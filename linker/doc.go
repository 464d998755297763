// Package linker resolves WebAssembly module imports against host-provided
// definitions.
//
// # Main Types
//
//   - Linker: maps (module, name) pairs to Definitions
//   - Definition: a host function, table, memory, or global
//   - Resolution: one module's imports matched to definitions, in order
//
// # Matching Rules
//
// Function imports match on exact signature; an attached symbol never
// participates. Table and memory imports use limit subsumption: the
// definition must reserve at least the required minimum, stay within a
// required maximum, and agree on sharing. Global imports match exactly on
// value type and mutability.
//
// # Thread Safety
//
// Linker is safe for concurrent use. Resolution is a snapshot and is not.
//
// # Example
//
//	l := linker.NewWithDefaults()
//	l.DefineFunc("env", "log", logSig, logFn)
//	l.DefineMemory("env", "memory", types.NewMemoryTypeWithMax(1, 16, false))
//	res, err := l.Resolve(module)
package linker
