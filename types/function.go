package types

import "strings"

// Symbol is an opaque handle to the resolved native implementation of a
// function signature: a compiled trampoline or a host function, attached by
// the linker after resolution. It never participates in type equality.
type Symbol = any

// FunctionType represents a function signature: ordered parameter types and
// ordered result types. Multi-value returns are supported.
//
// A FunctionType optionally carries a native symbol bound once by the
// linker. Two signatures that differ only in binding state are still
// type-compatible, so Equal ignores the symbol.
type FunctionType struct {
	params  []ValType
	results []ValType
	symbol  Symbol
}

// NewFunctionType returns a FunctionType over copies of the given
// parameter and result sequences, with no symbol bound.
func NewFunctionType(params, results []ValType) FunctionType {
	return FunctionType{
		params:  append([]ValType(nil), params...),
		results: append([]ValType(nil), results...),
	}
}

// NewFunctionTypeWithSymbol is NewFunctionType with a symbol bound at
// construction, for signatures resolved ahead of decoding (host functions).
func NewFunctionTypeWithSymbol(params, results []ValType, sym Symbol) FunctionType {
	ft := NewFunctionType(params, results)
	ft.symbol = sym
	return ft
}

// Params returns the parameter sequence. The returned slice shares backing
// storage with the type; callers may rewrite it during construction but
// must not mutate it after the type has been published.
func (f *FunctionType) Params() []ValType { return f.params }

// Results returns the result sequence, under the same sharing contract as
// Params.
func (f *FunctionType) Results() []ValType { return f.results }

// SetParams replaces the parameter sequence. Construction-time only.
func (f *FunctionType) SetParams(params []ValType) {
	f.params = append([]ValType(nil), params...)
}

// SetResults replaces the result sequence. Construction-time only.
func (f *FunctionType) SetResults(results []ValType) {
	f.results = append([]ValType(nil), results...)
}

// Equal reports structural equality: element-wise, ordered comparison of
// parameters and results. Binding state is excluded; an import match must
// not be rejected because one side has a symbol and the other does not.
func (f FunctionType) Equal(other FunctionType) bool {
	if len(f.params) != len(other.params) || len(f.results) != len(other.results) {
		return false
	}
	for i := range f.params {
		if f.params[i] != other.params[i] {
			return false
		}
	}
	for i := range f.results {
		if f.results[i] != other.results[i] {
			return false
		}
	}
	return true
}

// Symbol returns the bound native symbol, or nil if none is bound.
func (f *FunctionType) Symbol() Symbol { return f.symbol }

// BindSymbol attaches the resolved native implementation. The linker calls
// this at most once per resolved function, strictly before the owning
// module is exposed to concurrent readers.
func (f *FunctionType) BindSymbol(sym Symbol) { f.symbol = sym }

// String renders the signature as "(i32, i32) -> (i32)".
func (f FunctionType) String() string {
	var b strings.Builder
	writeValTypeList(&b, f.params)
	b.WriteString(" -> ")
	writeValTypeList(&b, f.results)
	return b.String()
}

func writeValTypeList(b *strings.Builder, vs []ValType) {
	b.WriteByte('(')
	for i, v := range vs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte(')')
}
