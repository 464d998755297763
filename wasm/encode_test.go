package wasm_test

import (
	"bytes"
	"testing"

	"github.com/streamvm/wasm-core/types"
	"github.com/streamvm/wasm-core/wasm"
)

func TestEncodeRoundTripBitExact(t *testing.T) {
	// Parse then re-encode; a well-formed module with minimally encoded
	// integers must survive byte for byte.
	data := buildModule(
		section(wasm.SectionType, 1, 0x60, 2, 0x7F, 0x7F, 1, 0x7F),
		section(wasm.SectionImport, 1, 3, 'e', 'n', 'v', 3, 'm', 'e', 'm', wasm.KindMemory, 0x00, 1),
		section(wasm.SectionFunction, 1, 0),
		section(wasm.SectionTable, 1, 0x70, 0x01, 1, 8),
		section(wasm.SectionMemory, 1, 0x03, 1, 4),
		section(wasm.SectionGlobal, 1, 0x7F, 0x01, 0x41, 42, 0x0B),
		section(wasm.SectionExport, 1, 3, 'a', 'd', 'd', wasm.KindFunc, 0),
		section(wasm.SectionCode, 1, 7, 0, 0x20, 0, 0x20, 1, 0x6A, 0x0B),
	)

	m, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule() error = %v", err)
	}

	got := m.Encode()
	if !bytes.Equal(got, data) {
		t.Errorf("Encode() round trip mismatch\n got: % x\nwant: % x", got, data)
	}
}

func TestEncodeLimitFlags(t *testing.T) {
	tests := []struct {
		name string
		lim  types.Limit
		want []byte
	}{
		{"min only", types.NewLimit(1), []byte{0x00, 1}},
		{"min and max", types.NewLimitWithMax(1, 2, false), []byte{0x01, 1, 2}},
		{"shared", types.NewLimitWithMax(1, 10, true), []byte{0x03, 1, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &wasm.Module{Memories: []types.MemoryType{types.NewMemoryTypeFromLimit(tt.lim)}}

			wantSec := section(wasm.SectionMemory, append([]byte{1}, tt.want...)...)
			want := buildModule(wantSec)

			if got := m.Encode(); !bytes.Equal(got, want) {
				t.Errorf("Encode() = % x, want % x", got, want)
			}
		})
	}
}

func TestEncodeSharedNoMax(t *testing.T) {
	lim := types.NewLimit(3)
	lim.SetType(types.LimitSharedNoMax)

	m := &wasm.Module{Memories: []types.MemoryType{types.NewMemoryTypeFromLimit(lim)}}
	data := m.Encode()

	want := buildModule(section(wasm.SectionMemory, 1, 0x02, 3))
	if !bytes.Equal(data, want) {
		t.Fatalf("Encode() = % x, want % x", data, want)
	}

	// And it must parse back to the same discriminant.
	parsed, err := wasm.ParseModule(data)
	if err != nil {
		t.Fatalf("ParseModule() error = %v", err)
	}
	got := parsed.Memories[0].Limit()
	if got.Type() != types.LimitSharedNoMax {
		t.Errorf("Type() = %v, want shared-no-max", got.Type())
	}
}

func TestEncodeStartAndDataCount(t *testing.T) {
	start := uint32(0)
	count := uint32(1)
	m := &wasm.Module{
		Types:     []types.FunctionType{types.NewFunctionType(nil, nil)},
		Funcs:     []uint32{0},
		Start:     &start,
		DataCount: &count,
		Code:      []wasm.FuncBody{{Code: []byte{wasm.OpEnd}}},
		Data: []wasm.DataSegment{{
			Flags: 1, // passive
			Init:  []byte{0xAA, 0xBB},
		}},
	}

	parsed, err := wasm.ParseModule(m.Encode())
	if err != nil {
		t.Fatalf("ParseModule() error = %v", err)
	}
	if parsed.Start == nil || *parsed.Start != 0 {
		t.Errorf("Start = %v, want 0", parsed.Start)
	}
	if parsed.DataCount == nil || *parsed.DataCount != 1 {
		t.Errorf("DataCount = %v, want 1", parsed.DataCount)
	}
	if len(parsed.Data) != 1 || !bytes.Equal(parsed.Data[0].Init, []byte{0xAA, 0xBB}) {
		t.Errorf("Data = %+v, want one passive segment", parsed.Data)
	}
}

func TestEncodeCustomSectionLast(t *testing.T) {
	m := &wasm.Module{
		Memories:       []types.MemoryType{types.NewMemoryType(1)},
		CustomSections: []wasm.CustomSection{{Name: "producers", Data: []byte{0x00}}},
	}

	parsed, err := wasm.ParseModule(m.Encode())
	if err != nil {
		t.Fatalf("ParseModule() error = %v", err)
	}
	if len(parsed.CustomSections) != 1 || parsed.CustomSections[0].Name != "producers" {
		t.Errorf("CustomSections = %+v, want producers", parsed.CustomSections)
	}
}
