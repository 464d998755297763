package linker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/streamvm/wasm-core/errors"
	"github.com/streamvm/wasm-core/types"
	"github.com/streamvm/wasm-core/wasm"
)

// Kind identifies what a definition provides.
type Kind byte

const (
	KindFunc Kind = iota
	KindTable
	KindMemory
	KindGlobal
)

func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "function"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Definition is a host-provided entity that can satisfy a module import.
// Exactly one of the type fields is set, matching Kind. Symbol is an opaque
// handle (a host function, an engine binding) carried through to the
// resolved import.
type Definition struct {
	Symbol types.Symbol
	Func   *types.FunctionType
	Table  *types.TableType
	Memory *types.MemoryType
	Global *types.GlobalType
	Kind   Kind
}

// Options configures linker behavior.
type Options struct {
	// AllowUnresolved skips unresolved imports instead of failing. The
	// resolution marks them so callers can trap on first use.
	AllowUnresolved bool
}

// DefaultOptions returns default linker configuration.
func DefaultOptions() Options {
	return Options{}
}

// Linker maps (module, name) pairs to definitions and resolves a parsed
// module's imports against them. Thread-safe.
type Linker struct {
	defs    map[string]map[string]Definition
	options Options
	mu      sync.RWMutex
}

// New creates a new Linker with the given options.
func New(opts Options) *Linker {
	return &Linker{
		defs:    make(map[string]map[string]Definition),
		options: opts,
	}
}

// NewWithDefaults creates a new Linker with default options.
func NewWithDefaults() *Linker {
	return New(DefaultOptions())
}

// Options returns the configuration.
func (l *Linker) Options() Options {
	return l.options
}

// Define registers a definition under a module and name. Redefining an
// existing name is an error; use a fresh Linker per instantiation graph.
func (l *Linker) Define(module, name string, def Definition) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ns, ok := l.defs[module]
	if !ok {
		ns = make(map[string]Definition)
		l.defs[module] = ns
	}
	if _, exists := ns[name]; exists {
		return errors.Duplicate(errors.PhaseLink, "definition", module+"."+name)
	}
	ns[name] = def

	Logger().Debug("linker: defined",
		zap.String("module", module),
		zap.String("name", name),
		zap.Stringer("kind", def.Kind))
	return nil
}

// DefineFunc registers a host function with the given signature. The symbol
// is the callable handle the engine binds when the import is used.
func (l *Linker) DefineFunc(module, name string, sig types.FunctionType, symbol types.Symbol) error {
	sig.BindSymbol(symbol)
	return l.Define(module, name, Definition{Kind: KindFunc, Func: &sig, Symbol: symbol})
}

// DefineTable registers a table definition.
func (l *Linker) DefineTable(module, name string, t types.TableType) error {
	return l.Define(module, name, Definition{Kind: KindTable, Table: &t})
}

// DefineMemory registers a memory definition.
func (l *Linker) DefineMemory(module, name string, m types.MemoryType) error {
	return l.Define(module, name, Definition{Kind: KindMemory, Memory: &m})
}

// DefineGlobal registers a global definition.
func (l *Linker) DefineGlobal(module, name string, g types.GlobalType) error {
	return l.Define(module, name, Definition{Kind: KindGlobal, Global: &g})
}

// DefineModuleExports registers every export of an already-linked module
// under the given name, so later modules can import from it.
func (l *Linker) DefineModuleExports(name string, m *wasm.Module) error {
	for _, exp := range m.Exports {
		var def Definition
		switch exp.Kind {
		case wasm.KindFunc:
			ft := m.GetFuncType(exp.Idx)
			if ft == nil {
				return errors.NotFound(errors.PhaseLink, "function type for export", exp.Name)
			}
			def = Definition{Kind: KindFunc, Func: ft, Symbol: ft.Symbol()}
		case wasm.KindTable:
			t, ok := m.TableTypeAt(exp.Idx)
			if !ok {
				return errors.NotFound(errors.PhaseLink, "table for export", exp.Name)
			}
			def = Definition{Kind: KindTable, Table: &t}
		case wasm.KindMemory:
			mt, ok := m.MemoryTypeAt(exp.Idx)
			if !ok {
				return errors.NotFound(errors.PhaseLink, "memory for export", exp.Name)
			}
			def = Definition{Kind: KindMemory, Memory: &mt}
		case wasm.KindGlobal:
			g, ok := m.GlobalTypeAt(exp.Idx)
			if !ok {
				return errors.NotFound(errors.PhaseLink, "global for export", exp.Name)
			}
			def = Definition{Kind: KindGlobal, Global: &g}
		}
		if err := l.Define(name, exp.Name, def); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the definition registered under module and name.
func (l *Linker) Lookup(module, name string) (Definition, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	def, ok := l.defs[module][name]
	return def, ok
}

// Close drops all definitions.
func (l *Linker) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.defs = make(map[string]map[string]Definition)
	return nil
}
