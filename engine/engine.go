package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	"github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/linker"
	"github.com/streamvm/wasm-core/types"
	"github.com/streamvm/wasm-core/wasm"
)

// Config holds configuration for engine creation.
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB
	// each). 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableThreads enables the WebAssembly threads proposal
	// (experimental). Required for modules with shared memories.
	EnableThreads bool
}

// Engine compiles and instantiates WebAssembly modules on a wazero
// runtime. Safe for concurrent use.
type Engine struct {
	runtime      wazero.Runtime
	hostModuleMu sync.Mutex
}

// New creates an engine with default configuration.
func New(ctx context.Context) *Engine {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(ctx context.Context, cfg *Config) *Engine {
	runtimeCfg := wazero.NewRuntimeConfig()

	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.EnableThreads {
			runtimeCfg = runtimeCfg.WithCoreFeatures(api.CoreFeaturesV2 | experimental.CoreFeaturesThreads)
		}
	}

	return &Engine{runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg)}
}

// Runtime returns the underlying wazero runtime.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Close releases the engine and every module instantiated on it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// CompiledModule pairs the structural view of a module with its compiled
// wazero form. The structural module carries the type descriptors imports
// are matched against; the compiled form executes.
type CompiledModule struct {
	engine   *Engine
	module   *wasm.Module
	compiled wazero.CompiledModule
}

// Module returns the structural module.
func (c *CompiledModule) Module() *wasm.Module {
	return c.module
}

// Close releases the compiled code.
func (c *CompiledModule) Close(ctx context.Context) error {
	return c.compiled.Close(ctx)
}

// Compile parses, validates, and compiles a WebAssembly binary.
func (e *Engine) Compile(ctx context.Context, source []byte) (*CompiledModule, error) {
	m, err := wasm.ParseModuleValidate(source)
	if err != nil {
		return nil, err
	}
	return e.compile(ctx, m, source)
}

// CompileModule compiles an already-parsed structural module by re-encoding
// it. Useful after programmatic construction or rewriting.
func (e *Engine) CompileModule(ctx context.Context, m *wasm.Module) (*CompiledModule, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return e.compile(ctx, m, m.Encode())
}

func (e *Engine) compile(ctx context.Context, m *wasm.Module, source []byte) (*CompiledModule, error) {
	compiled, err := e.runtime.CompileModule(ctx, source)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseInstantiate, errors.KindInternal, err, "compile module")
	}

	Logger().Debug("engine: compiled module",
		zap.Int("types", len(m.Types)),
		zap.Int("imports", len(m.Imports)),
		zap.Int("funcs", len(m.Funcs)))

	return &CompiledModule{engine: e, module: m, compiled: compiled}, nil
}

// Host wraps a Go function as a symbol suitable for linker.DefineFunc.
// The stack convention follows wazero: params and results share one
// uint64 slice, encoded per api.ValueType.
func Host(fn func(ctx context.Context, mod api.Module, stack []uint64)) types.Symbol {
	return api.GoModuleFunc(fn)
}

// Instantiate resolves the module's imports against l, registers any host
// function definitions with the runtime, and instantiates the module under
// the given name.
//
// Imports from other instantiated modules resolve by instance name through
// the runtime. After instantiation every exported function's handle is
// bound onto the module's signature entry, so type-level consumers can
// reach the callable through the type table.
func (e *Engine) Instantiate(ctx context.Context, c *CompiledModule, l *linker.Linker, name string) (*Instance, error) {
	res, err := l.Resolve(c.module)
	if err != nil {
		return nil, err
	}

	if err := e.instantiateHostModules(ctx, res); err != nil {
		return nil, err
	}

	// The core start section, if any, runs during instantiation.
	cfg := wazero.NewModuleConfig().WithName(name)
	mod, err := e.runtime.InstantiateModule(ctx, c.compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	inst := &Instance{engine: e, module: c.module, mod: mod}
	inst.bindExportSymbols()
	return inst, nil
}

// instantiateHostModules groups resolved host function imports by import
// module name and instantiates one wazero host module per group. Names
// already present in the runtime are left alone, so several guest modules
// can share one set of host definitions.
func (e *Engine) instantiateHostModules(ctx context.Context, res *linker.Resolution) error {
	hostFuncs := make(map[string][]linker.ResolvedImport)
	var order []string

	for _, ri := range res.Funcs() {
		if ri.Missing {
			continue
		}
		if _, ok := ri.Definition.Symbol.(api.GoModuleFunc); !ok {
			continue
		}
		if _, seen := hostFuncs[ri.Module]; !seen {
			order = append(order, ri.Module)
		}
		hostFuncs[ri.Module] = append(hostFuncs[ri.Module], ri)
	}

	e.hostModuleMu.Lock()
	defer e.hostModuleMu.Unlock()

	for _, moduleName := range order {
		if e.runtime.Module(moduleName) != nil {
			continue
		}

		builder := e.runtime.NewHostModuleBuilder(moduleName)
		for _, ri := range hostFuncs[moduleName] {
			fn := ri.Definition.Symbol.(api.GoModuleFunc)
			params, results, err := hostSignature(*ri.Definition.Func)
			if err != nil {
				return errors.IncompatibleImport(ri.Module, ri.Name, err.Error())
			}
			builder.NewFunctionBuilder().
				WithGoModuleFunction(fn, params, results).
				Export(ri.Name)
		}

		if _, err := builder.Instantiate(ctx); err != nil {
			return errors.Instantiation(err)
		}

		Logger().Debug("engine: instantiated host module",
			zap.String("module", moduleName),
			zap.Int("funcs", len(hostFuncs[moduleName])))
	}

	return nil
}
