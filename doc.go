// Package wasmcore provides the structural type model of WebAssembly
// modules and the machinery to parse, validate, link, and run them.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	wasmcore/            Root package documentation
//	├── types/           Structural types: limits, signatures, descriptors
//	├── wasm/            Binary parsing, encoding, and validation
//	├── linker/          Import resolution and type matching
//	├── engine/          Execution on the wazero runtime
//	└── errors/          Structured error types
//
// Package types is the foundation: Limit, FunctionType, MemoryType,
// TableType, and GlobalType describe a module's interface surface without
// reference to any binary encoding or runtime. The wasm package maps those
// types to and from the binary format, the linker matches them across
// module boundaries, and the engine executes modules whose imports the
// linker has satisfied.
//
// # Quick Start
//
// Parse a binary and inspect its types:
//
//	m, err := wasm.ParseModuleValidate(wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := range m.Types {
//	    fmt.Println(&m.Types[i]) // "(i32, i32) -> (i32)"
//	}
//
// Run it:
//
//	e := engine.New(ctx)
//	defer e.Close(ctx)
//
//	c, _ := e.Compile(ctx, wasmBytes)
//	inst, _ := e.Instantiate(ctx, c, linker.NewWithDefaults(), "main")
//	defer inst.Close(ctx)
//
//	result, _ := inst.Call(ctx, "add", 3, 4)
//
// # Thread Safety
//
// Engine, CompiledModule, and Linker are safe for concurrent use.
// Instance and the types package's mutable views are not.
package wasmcore
