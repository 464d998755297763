package types_test

import (
	"testing"

	"github.com/streamvm/wasm-core/types"
)

func TestValTypeString(t *testing.T) {
	tests := []struct {
		want string
		v    types.ValType
	}{
		{"i32", types.ValI32},
		{"i64", types.ValI64},
		{"f32", types.ValF32},
		{"f64", types.ValF64},
		{"v128", types.ValV128},
		{"funcref", types.ValFuncRef},
		{"externref", types.ValExternRef},
		{"unknown", types.ValType(0xFF)},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("ValType(0x%02x).String() = %q, want %q", byte(tt.v), got, tt.want)
		}
	}
}

func TestValTypeKinds(t *testing.T) {
	tests := []struct {
		v       types.ValType
		isRef   bool
		isNum   bool
		isValid bool
	}{
		{types.ValI32, false, true, true},
		{types.ValI64, false, true, true},
		{types.ValF32, false, true, true},
		{types.ValF64, false, true, true},
		{types.ValV128, false, true, true},
		{types.ValFuncRef, true, false, true},
		{types.ValExternRef, true, false, true},
		{types.ValType(0x00), false, false, false},
		{types.ValType(0x60), false, false, false},
	}

	for _, tt := range tests {
		if got := tt.v.IsRefType(); got != tt.isRef {
			t.Errorf("ValType(0x%02x).IsRefType() = %v, want %v", byte(tt.v), got, tt.isRef)
		}
		if got := tt.v.IsNumType(); got != tt.isNum {
			t.Errorf("ValType(0x%02x).IsNumType() = %v, want %v", byte(tt.v), got, tt.isNum)
		}
		if got := tt.v.IsValid(); got != tt.isValid {
			t.Errorf("ValType(0x%02x).IsValid() = %v, want %v", byte(tt.v), got, tt.isValid)
		}
	}
}

func TestMutabilityString(t *testing.T) {
	if types.MutConst.String() != "const" || types.MutVar.String() != "var" {
		t.Error("mutability strings wrong")
	}
	if types.Mutability(0x05).String() != "unknown" {
		t.Error("unknown mutability must render as unknown")
	}
}
