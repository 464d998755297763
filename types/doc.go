// Package types defines the structural types that describe the interface
// surface of a WebAssembly module: function signatures, linear memories,
// tables, and globals, together with the bounded-size Limit descriptor
// shared by memories and tables.
//
// These types are the contract between the pipeline stages. The decoder in
// package wasm constructs them from a module's binary sections, the
// validator and linker read them through accessors and compare
// FunctionType values for structural equality, and the engine sizes
// storage from Limit fields and binds native symbols onto resolved
// function signatures.
//
// # Sharing
//
// All five types are plain values with no internal synchronization. Once a
// value is published into a module's type tables it must be treated as
// immutable by every reader; only the decoder (during construction) and
// the linker (the one-time symbol binding on FunctionType) may mutate it,
// and that mutation must complete before the module is exposed to
// concurrent readers.
package types
