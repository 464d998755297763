package binary

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newReader(data []byte) *Reader {
	return NewReader(bytes.NewReader(data))
}

func TestReadU32(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint32
	}{
		{"zero", []byte{0x00}, 0},
		{"single byte", []byte{0x40}, 64},
		{"two bytes", []byte{0x80, 0x01}, 128},
		{"max uint32", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, 0xFFFFFFFF},
		{"non-minimal encoding", []byte{0x80, 0x80, 0x00}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newReader(tt.data).ReadU32()
			if err != nil {
				t.Fatalf("ReadU32() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ReadU32() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadU32Overflow(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		// Six continuation bytes exceed the 35-bit shift ceiling.
		{"too many bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}},
		// Fifth byte carries payload bits above bit 31.
		{"final byte too large", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F}},
		{"final byte one bit over", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x1F}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newReader(tt.data).ReadU32()
			if !errors.Is(err, ErrOverflow) {
				t.Fatalf("ReadU32(% x) error = %v, want ErrOverflow", tt.data, err)
			}
		})
	}
}

func TestReadBytesDeclaredLengthExceedsInput(t *testing.T) {
	r := newReader([]byte{1, 2, 3})
	if _, err := r.ReadBytes(1 << 30); err == nil {
		t.Fatal("ReadBytes() accepted a length beyond the input")
	}
	// The position must be untouched so the error reports where the bad
	// length was read.
	if r.Position() != 0 {
		t.Errorf("Position() = %d, want 0", r.Position())
	}
}

func TestReadU32Truncated(t *testing.T) {
	_, err := newReader([]byte{0x80}).ReadU32()
	if err == nil {
		t.Fatal("ReadU32() accepted a truncated encoding")
	}
}

func TestReadName(t *testing.T) {
	r := newReader([]byte{5, 'h', 'e', 'l', 'l', 'o'})
	got, err := r.ReadName()
	if err != nil {
		t.Fatalf("ReadName() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadName() = %q, want %q", got, "hello")
	}
}

func TestReadNameInvalidUTF8(t *testing.T) {
	r := newReader([]byte{2, 0xFF, 0xFE})
	if _, err := r.ReadName(); err == nil {
		t.Fatal("ReadName() accepted invalid UTF-8")
	}
}

func TestReadU32LE(t *testing.T) {
	r := newReader([]byte{0x00, 0x61, 0x73, 0x6D})
	got, err := r.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE() error = %v", err)
	}
	if got != 0x6D736100 {
		t.Errorf("ReadU32LE() = 0x%08x, want 0x6D736100", got)
	}
}

func TestPosition(t *testing.T) {
	r := newReader([]byte{1, 2, 3, 4})
	if r.Position() != 0 {
		t.Fatalf("Position() = %d, want 0", r.Position())
	}
	if _, err := r.ReadBytes(3); err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("Position() = %d, want 3", r.Position())
	}
}

func TestReadRemaining(t *testing.T) {
	r := newReader([]byte{1, 2, 3})
	if _, err := r.ReadByte(); err != nil {
		t.Fatalf("ReadByte() error = %v", err)
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		t.Fatalf("ReadRemaining() error = %v", err)
	}
	if !bytes.Equal(rest, []byte{2, 3}) {
		t.Errorf("ReadRemaining() = %v, want [2 3]", rest)
	}
}

func TestErrorsCarryPosition(t *testing.T) {
	r := newReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x7F})
	_, err := r.ReadU32()
	if err == nil || !strings.Contains(err.Error(), "position") {
		t.Errorf("ReadU32() error = %v, want position information", err)
	}
	if !errors.Is(err, ErrOverflow) {
		t.Error("wrapping lost the sentinel error")
	}
}

func TestWriterRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 300, 1 << 20, 0xFFFFFFFF}

	w := NewWriter()
	for _, v := range values {
		w.WriteU32(v)
	}
	w.WriteName("memory")
	w.WriteU32LE(0x6D736100)

	r := newReader(w.Bytes())
	for _, want := range values {
		got, err := r.ReadU32()
		if err != nil {
			t.Fatalf("ReadU32() error = %v", err)
		}
		if got != want {
			t.Errorf("ReadU32() = %d, want %d", got, want)
		}
	}
	name, err := r.ReadName()
	if err != nil || name != "memory" {
		t.Errorf("ReadName() = %q, %v, want %q", name, err, "memory")
	}
	magic, err := r.ReadU32LE()
	if err != nil || magic != 0x6D736100 {
		t.Errorf("ReadU32LE() = 0x%x, %v", magic, err)
	}
}

func TestWriterMinimalLEB(t *testing.T) {
	w := NewWriter()
	w.WriteU32(128)
	if !bytes.Equal(w.Bytes(), []byte{0x80, 0x01}) {
		t.Errorf("WriteU32(128) = % x, want 80 01", w.Bytes())
	}
	if w.Len() != 2 {
		t.Errorf("Len() = %d, want 2", w.Len())
	}
}
