package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/streamvm/wasm-core/engine"
	"github.com/streamvm/wasm-core/linker"
	"github.com/streamvm/wasm-core/wasm"
)

func main() {
	var (
		wasmFile = flag.String("wasm", "", "Path to wasm file")
		validate = flag.Bool("validate", false, "Run structural validation")
		funcName = flag.String("call", "", "Exported function to call (optional)")
		funcArgs = flag.String("args", "", "Arguments for -call (comma-separated integers)")
		verbose  = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: wasm-info -wasm <file.wasm> [-validate]")
		fmt.Fprintln(os.Stderr, "       wasm-info -wasm <file.wasm> -call <func> [-args 1,2]")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			linker.SetLogger(log)
			engine.SetLogger(log)
			defer log.Sync()
		}
	}

	if err := run(*wasmFile, *funcName, *funcArgs, *validate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, funcName, funcArgs string, validate bool) error {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	m, err := wasm.ParseModule(data)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if validate {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("validate: %w", err)
		}
		fmt.Println("Module is structurally valid.")
	}

	printModule(wasmFile, m)

	if funcName != "" {
		return call(m, data, funcName, funcArgs)
	}
	return nil
}

func printModule(path string, m *wasm.Module) {
	fmt.Printf("Module: %s\n", path)
	fmt.Printf("Types: %d, Imports: %d, Functions: %d, Exports: %d\n",
		len(m.Types), len(m.Imports), m.NumImportedFuncs()+len(m.Funcs), len(m.Exports))

	if len(m.Types) > 0 {
		fmt.Printf("\nFunction signatures:\n")
		for i := range m.Types {
			fmt.Printf("  [%d] %s\n", i, &m.Types[i])
		}
	}

	if len(m.Imports) > 0 {
		fmt.Printf("\nImports:\n")
		for _, imp := range m.Imports {
			fmt.Printf("  %s.%s: %s\n", imp.Module, imp.Name, describeImport(m, imp))
		}
	}

	if n := m.NumImportedMemories() + len(m.Memories); n > 0 {
		fmt.Printf("\nMemories:\n")
		for i := 0; i < n; i++ {
			if mt, ok := m.MemoryTypeAt(uint32(i)); ok {
				fmt.Printf("  [%d] %s\n", i, mt)
			}
		}
	}

	if n := m.NumImportedTables() + len(m.Tables); n > 0 {
		fmt.Printf("\nTables:\n")
		for i := 0; i < n; i++ {
			if tt, ok := m.TableTypeAt(uint32(i)); ok {
				fmt.Printf("  [%d] %s\n", i, tt)
			}
		}
	}

	if n := m.NumImportedGlobals() + len(m.Globals); n > 0 {
		fmt.Printf("\nGlobals:\n")
		for i := 0; i < n; i++ {
			if gt, ok := m.GlobalTypeAt(uint32(i)); ok {
				fmt.Printf("  [%d] %s\n", i, gt)
			}
		}
	}

	if len(m.Exports) > 0 {
		fmt.Printf("\nExports:\n")
		for _, exp := range m.Exports {
			fmt.Printf("  %s: %s[%d]\n", exp.Name, kindName(exp.Kind), exp.Idx)
		}
	}

	if len(m.CustomSections) > 0 {
		fmt.Printf("\nCustom sections:\n")
		for _, cs := range m.CustomSections {
			fmt.Printf("  %s (%d bytes)\n", cs.Name, len(cs.Data))
		}
	}
}

func describeImport(m *wasm.Module, imp wasm.Import) string {
	switch imp.Desc.Kind {
	case wasm.KindFunc:
		if int(imp.Desc.TypeIdx) < len(m.Types) {
			return "func " + m.Types[imp.Desc.TypeIdx].String()
		}
		return fmt.Sprintf("func (type %d)", imp.Desc.TypeIdx)
	case wasm.KindTable:
		return imp.Desc.Table.String()
	case wasm.KindMemory:
		return imp.Desc.Memory.String()
	case wasm.KindGlobal:
		return imp.Desc.Global.String()
	default:
		return "unknown"
	}
}

func kindName(kind byte) string {
	switch kind {
	case wasm.KindFunc:
		return "func"
	case wasm.KindTable:
		return "table"
	case wasm.KindMemory:
		return "memory"
	case wasm.KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

func call(m *wasm.Module, data []byte, funcName, funcArgs string) error {
	ctx := context.Background()
	e := engine.New(ctx)
	defer e.Close(ctx)

	c, err := e.Compile(ctx, data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	inst, err := e.Instantiate(ctx, c, linker.NewWithDefaults(), "main")
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer inst.Close(ctx)

	var params []uint64
	if funcArgs != "" {
		for _, s := range strings.Split(funcArgs, ",") {
			v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return fmt.Errorf("argument %q: %w", s, err)
			}
			params = append(params, v)
		}
	}

	results, err := inst.Call(ctx, funcName, params...)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s(%s) = %v\n", funcName, funcArgs, results)
	return nil
}
