// Package errors provides structured error types for the wasm-core library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes context: binary section and offset for
// parse errors, import module and name for link errors, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLink, errors.KindTypeMismatch).
//		Import("env", "memory").
//		Detail("limit min 1 below required 2").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Malformed("type", pos, cause)
//	err := errors.Invalid("start function index %d out of range", idx)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
