package types_test

import (
	"testing"

	"github.com/streamvm/wasm-core/types"
)

func TestFunctionTypeEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b types.FunctionType
		want bool
	}{
		{
			"identical signature",
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValI32}, []types.ValType{types.ValI32}),
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValI32}, []types.ValType{types.ValI32}),
			true,
		},
		{
			"different param arity",
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValI32}, []types.ValType{types.ValI32}),
			types.NewFunctionType([]types.ValType{types.ValI32}, []types.ValType{types.ValI32}),
			false,
		},
		{
			"different result type",
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValI32}, []types.ValType{types.ValI32}),
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValI32}, []types.ValType{types.ValI64}),
			false,
		},
		{
			"param order matters",
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValF64}, nil),
			types.NewFunctionType([]types.ValType{types.ValF64, types.ValI32}, nil),
			false,
		},
		{
			"nullary",
			types.NewFunctionType(nil, nil),
			types.NewFunctionType([]types.ValType{}, []types.ValType{}),
			true,
		},
		{
			"multi-value results",
			types.NewFunctionType(nil, []types.ValType{types.ValI32, types.ValI64}),
			types.NewFunctionType(nil, []types.ValType{types.ValI32, types.ValI64}),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal is not symmetric for %s, %s", tt.a, tt.b)
			}
		})
	}
}

func TestFunctionTypeEqualIgnoresSymbol(t *testing.T) {
	sig := []types.ValType{types.ValI32, types.ValI32}
	res := []types.ValType{types.ValI32}

	unbound := types.NewFunctionType(sig, res)
	bound := types.NewFunctionType(sig, res)
	bound.BindSymbol("native-trampoline")

	if !unbound.Equal(bound) || !bound.Equal(unbound) {
		t.Error("binding a symbol must not change structural equality")
	}

	withCtor := types.NewFunctionTypeWithSymbol(sig, res, 42)
	if !withCtor.Equal(unbound) {
		t.Error("symbol bound at construction must not change structural equality")
	}
}

func TestFunctionTypeSymbolBinding(t *testing.T) {
	ft := types.NewFunctionType([]types.ValType{types.ValI64}, nil)
	if ft.Symbol() != nil {
		t.Error("new FunctionType must have no symbol bound")
	}

	ft.BindSymbol("adapter")
	if got := ft.Symbol(); got != "adapter" {
		t.Errorf("Symbol() = %v, want %q", got, "adapter")
	}
}

func TestFunctionTypeCopiesInput(t *testing.T) {
	params := []types.ValType{types.ValI32}
	ft := types.NewFunctionType(params, nil)

	params[0] = types.ValF64
	if ft.Params()[0] != types.ValI32 {
		t.Error("constructor must copy the parameter sequence")
	}
}

func TestFunctionTypeMutableViews(t *testing.T) {
	ft := types.NewFunctionType([]types.ValType{types.ValI32}, []types.ValType{types.ValI32})

	// Construction-time rewriting through the shared backing array.
	ft.Params()[0] = types.ValI64
	want := types.NewFunctionType([]types.ValType{types.ValI64}, []types.ValType{types.ValI32})
	if !ft.Equal(want) {
		t.Errorf("after rewrite ft = %s, want %s", ft, want)
	}

	ft.SetResults([]types.ValType{types.ValF32, types.ValF32})
	if len(ft.Results()) != 2 || ft.Results()[0] != types.ValF32 {
		t.Errorf("SetResults not applied: %s", ft)
	}
}

func TestFunctionTypeString(t *testing.T) {
	tests := []struct {
		ft   types.FunctionType
		want string
	}{
		{types.NewFunctionType(nil, nil), "() -> ()"},
		{
			types.NewFunctionType([]types.ValType{types.ValI32, types.ValI32}, []types.ValType{types.ValI32}),
			"(i32, i32) -> (i32)",
		},
		{
			types.NewFunctionType([]types.ValType{types.ValFuncRef}, []types.ValType{types.ValI64, types.ValF64}),
			"(funcref) -> (i64, f64)",
		},
	}
	for _, tt := range tests {
		if got := tt.ft.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
