package types_test

import (
	"testing"

	"github.com/streamvm/wasm-core/types"
)

func TestTableTypeConstruction(t *testing.T) {
	tt := types.NewTableType(types.ValFuncRef, 2)
	if tt.RefType() != types.ValFuncRef {
		t.Errorf("RefType() = %v, want funcref", tt.RefType())
	}
	if tt.Limit().Min() != 2 || tt.Limit().HasMax() {
		t.Errorf("Limit() = %v, want min=2 unbounded", tt.Limit())
	}

	bounded := types.NewTableTypeWithMax(types.ValExternRef, 1, 8)
	if !bounded.Limit().HasMax() || bounded.Limit().Max() != 8 {
		t.Errorf("Limit() = %v, want max=8", bounded.Limit())
	}

	fromLimit := types.NewTableTypeFromLimit(types.ValFuncRef, types.NewLimitWithMax(0, 4, false))
	if fromLimit.Limit().Max() != 4 {
		t.Errorf("Limit() = %v, want max=4", fromLimit.Limit())
	}
}

func TestTableTypeRejectsNonRefType(t *testing.T) {
	for _, v := range []types.ValType{types.ValI32, types.ValI64, types.ValF32, types.ValF64, types.ValV128} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewTableType(%s, 0) did not panic", v)
				}
			}()
			types.NewTableType(v, 0)
		}()
	}
}

func TestTableTypeSetRefType(t *testing.T) {
	tt := types.NewTableType(types.ValFuncRef, 0)
	tt.SetRefType(types.ValExternRef)
	if tt.RefType() != types.ValExternRef {
		t.Errorf("RefType() = %v, want externref", tt.RefType())
	}

	defer func() {
		if recover() == nil {
			t.Error("SetRefType(i32) did not panic")
		}
	}()
	tt.SetRefType(types.ValI32)
}

func TestTableTypeSetLimit(t *testing.T) {
	tt := types.NewTableType(types.ValFuncRef, 0)
	tt.SetLimit(types.NewLimitWithMax(3, 9, false))
	if tt.Limit().Min() != 3 || tt.Limit().Max() != 9 {
		t.Errorf("Limit() = %v, want min=3 max=9", tt.Limit())
	}
}
