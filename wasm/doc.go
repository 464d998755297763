// Package wasm parses, validates, and encodes WebAssembly binary modules.
//
// ParseModule decodes a core-spec binary into a Module, whose type-level
// contents (function signatures, table, memory, and global descriptors)
// are expressed with the types package. Module.Encode produces the binary
// back, preserving limit encodings bit-exactly. Module.Validate performs
// the structural checks that don't require instruction-level analysis:
// index spaces, export name uniqueness, start signatures, and limit rules.
//
// The decoder covers the 1.0 core format plus bulk memory, reference
// types, and the shared-memory limit encodings from the threads proposal.
// GC types, exception handling, and memory64 are not supported.
package wasm
